// Command farmermarket runs the farmer market backend.
//
//	farmermarket serve             # start HTTP (and gRPC health when GRPC_PORT is set)
//	farmermarket migrate           # run pending migrations
//	farmermarket migrate:rollback  # roll back the last batch
//	farmermarket migrate:status
//	farmermarket seed              # insert demo products and accounts
//	farmermarket seed users        # only the named seeders
//	farmermarket route:list        # list named API routes
//
// Configuration is read from config/app.json, .env and the process
// environment, in that order of precedence (lowest first).
package main
