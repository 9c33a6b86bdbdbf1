package commands

import (
	"NoteKeeper/internal/config"
	"path/filepath"
	"runtime"
	"testing"
)

// withTempConfig переопределяет пользовательские каталоги на время теста,
// чтобы артефакты (токен/логин) создавались в temp. Возвращает конфиг с путём токена.
func withTempConfig(t *testing.T, serverURL string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	if runtime.GOOS == "windows" {
		t.Setenv("APPDATA", dir)
	} else {
		t.Setenv("XDG_CONFIG_HOME", dir)
	}
	return &config.Config{ServerURL: serverURL, TokenFile: filepath.Join(dir, "NoteKeeper", "auth_token")}
}
