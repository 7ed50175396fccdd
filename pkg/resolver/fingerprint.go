package resolver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// fingerprintFiles lists the files whose content determines `npm ls` output.
// node_modules/.package-lock.json is npm's record of what is installed.
var fingerprintFiles = []string{
	"package.json",
	"package-lock.json",
	"npm-shrinkwrap.json",
	filepath.Join("node_modules", ".package-lock.json"),
}

// LockfileFingerprint hashes the manifest and lockfiles in dir. It returns
// "" when there is no lockfile, since the installed tree cannot then be
// identified.
func LockfileFingerprint(dir string) (string, error) {
	h := sha256.New()
	locks := 0
	for _, name := range fingerprintFiles {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		if name != "package.json" {
			locks++
		}
		h.Write([]byte(name))
		h.Write([]byte{0})
		h.Write(data)
		h.Write([]byte{0})
	}
	if locks == 0 {
		return "", nil
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
