package constants

import (
	"os"
	"path/filepath"
)

const DefaultHomeEnv string = "VAULTSTAKE_HOME"
const ConfigEnv string = "VAULTSTAKE_CONFIG"

var DefaultHome string

func init() {
	if home := os.Getenv(DefaultHomeEnv); home != "" {
		DefaultHome = home
		return
	} else {
		// ~/.vaultstake default
		userHomeDir, err := os.UserHomeDir()
		if err != nil {
			DefaultHome = "/data"
		} else {
			DefaultHome = filepath.Join(userHomeDir, ".vaultstake")
		}
	}
}
