package config

import "os"

func IsDebug() bool {
	return os.Getenv("WECHATGPT_DEBUG") == "1"
}
