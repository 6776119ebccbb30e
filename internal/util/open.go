package util

import (
	"os/exec"
	"runtime"
)

// OpenPath 用系统默认程序打开目录或文件（生成完成后查看输出目录）
func OpenPath(path string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("explorer", path)
	case "darwin":
		cmd = exec.Command("open", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}

	return cmd.Start()
}

// OpenPathWithFallback 主要方式失败时尝试备选方式
func OpenPathWithFallback(path string) error {
	err := OpenPath(path)
	if err == nil {
		return nil
	}

	switch runtime.GOOS {
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", path).Start()
	case "linux":
		for _, opener := range []string{"gio", "nautilus", "sensible-browser"} {
			args := []string{path}
			if opener == "gio" {
				args = []string{"open", path}
			}
			if err := exec.Command(opener, args...).Start(); err == nil {
				return nil
			}
		}
	}

	return err
}
