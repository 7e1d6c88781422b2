package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmermarket/backend/app/models"
	"github.com/farmermarket/backend/app/repositories"
	"github.com/farmermarket/backend/pkg/storage"
	"github.com/farmermarket/backend/pkg/testkit"
)

func newMessageService(t *testing.T) (*MessageService, string) {
	t.Helper()
	root := t.TempDir()
	repo := repositories.NewMessageRepository(testkit.NewDB(t, models.All()...))
	return NewMessageService(repo, storage.NewLocalDisk(root, "/uploads"), "local"), root
}

func TestSendStampsDefaults(t *testing.T) {
	svc, _ := newMessageService(t)

	m, err := svc.Send(context.Background(), &models.Message{BuyerEmail: "a@b.com", Subject: "Hi", Body: "hello"}, nil)
	require.NoError(t, err)
	assert.NotZero(t, m.ID)
	assert.Equal(t, models.MessageUnread, m.Status)
	assert.Equal(t, models.SenderBuyer, m.SenderRole)
	assert.False(t, m.CreatedAt.IsZero())
	assert.Empty(t, m.ImagePath)
}

func TestSendStoresImage(t *testing.T) {
	svc, root := newMessageService(t)

	img := &Upload{Filename: `C:\Users\ann\photo.png`, ContentType: "image/png", Data: []byte("png")}
	m, err := svc.Send(context.Background(), &models.Message{BuyerEmail: "a@b.com", SenderRole: "Admin"}, img)
	require.NoError(t, err)
	assert.Equal(t, models.SenderAdmin, m.SenderRole)
	assert.True(t, strings.HasPrefix(m.ImagePath, "/uploads/messages/"), m.ImagePath)
	assert.True(t, strings.HasSuffix(m.ImagePath, "_photo.png"), m.ImagePath)

	onDisk, err := os.ReadFile(filepath.Join(root, strings.TrimPrefix(m.ImagePath, "/uploads/")))
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), onDisk)
}

func TestSendRejectsNonImage(t *testing.T) {
	svc, root := newMessageService(t)
	ctx := context.Background()

	_, err := svc.Send(ctx, &models.Message{BuyerEmail: "a@b.com"},
		&Upload{Filename: "notes.pdf", ContentType: "application/pdf", Data: []byte("%PDF")})
	assert.True(t, errors.Is(err, ErrValidation))

	msgs, err := svc.AllMessages(ctx)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSendRejectsUnknownSender(t *testing.T) {
	svc, _ := newMessageService(t)
	_, err := svc.Send(context.Background(), &models.Message{SenderRole: "farmer"}, nil)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestBuyerMessagesOldestFirst(t *testing.T) {
	svc, _ := newMessageService(t)
	ctx := context.Background()

	for _, body := range []string{"one", "two", "three"} {
		_, err := svc.Send(ctx, &models.Message{BuyerEmail: "a@b.com", Body: body}, nil)
		require.NoError(t, err)
	}
	_, err := svc.Send(ctx, &models.Message{BuyerEmail: "x@y.com", Body: "other"}, nil)
	require.NoError(t, err)

	msgs, err := svc.BuyerMessages(ctx, "a@b.com")
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "one", msgs[0].Body)
	assert.Equal(t, "three", msgs[2].Body)
}

func TestUploadName(t *testing.T) {
	assert.Equal(t, "a.png", uploadName("../../a.png"))
	assert.Equal(t, "upload", uploadName(""))
	assert.Equal(t, "upload", uploadName("dir/"))
	assert.Equal(t, "upload", uploadName(`dir\`))
	assert.Equal(t, "upload", uploadName(".."))
	assert.Equal(t, "b.png", uploadName(`C:\photos\b.png`))
}
