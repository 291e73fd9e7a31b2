// Package server runs the sync service's transport servers: the HTTP
// replication endpoints and the gRPC health probe. It owns startup, OS
// signal handling and graceful shutdown of every enabled transport.
package server
