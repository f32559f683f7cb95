// Package scope derives the storage identity of a working directory.
package scope

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

// Ext is the file extension of a scope's storage file.
const Ext = ".json"

// ID returns the stable identifier for cwd: the hex SHA-256 of the directory
// string exactly as given. Callers that want "/a/b/" and "/a/b" to share a
// scope should clean the path first.
func ID(cwd string) string {
	sum := sha256.Sum256([]byte(cwd))
	return hex.EncodeToString(sum[:])
}

// FilePath returns the storage file for cwd under dataDir.
func FilePath(dataDir, cwd string) string {
	return filepath.Join(dataDir, ID(cwd)+Ext)
}
