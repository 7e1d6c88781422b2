// Package repositories persists the models through gorm. Every repository
// holds an explicit *gorm.DB and runs queries with the caller's context.
package repositories

import (
	"strings"

	"gorm.io/gorm"
)

const likeEscape = "!"

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	r := strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")
	return r.Replace(s)
}

// withItems preloads order items in insertion order.
func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("id ASC")
	})
}
