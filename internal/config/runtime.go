package config

import "os"

// GetRuntimePath is the pre-config bootstrap lookup, used before the .env
// file has been loaded.
func GetRuntimePath() string {
	path := os.Getenv("WECHATGPT_RUNTIME_PATH")
	if path == "" {
		path = ".wechatgpt"
	}
	return path
}
