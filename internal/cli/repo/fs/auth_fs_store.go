package fs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// AuthFSStore файловое хранилище токена и имени пользователя для CLI.
// Path файл токена; пустой — <UserConfigDir>/NoteKeeper/auth_token.
// Имя пользователя хранится рядом, в last_login.
type AuthFSStore struct {
	Path string
}

func (s AuthFSStore) tokenPath() (string, error) {
	p := s.Path
	if p == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		p = filepath.Join(dir, "NoteKeeper", "auth_token")
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return "", err
	}
	return p, nil
}

func (s AuthFSStore) lastLoginPath() (string, error) {
	p, err := s.tokenPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(p), "last_login"), nil
}

func readTrimmed(p, emptyMsg string) (string, error) {
	b, err := os.ReadFile(p)
	if err != nil {
		return "", err
	}
	// обрезаем завершающие переводы строки/пробелы
	v := strings.TrimRight(string(b), " \t\r\n")
	if v == "" {
		return "", errors.New(emptyMsg)
	}
	return v, nil
}

// Save сохраняет auth‑токен в файл.
func (s AuthFSStore) Save(token string) error {
	p, err := s.tokenPath()
	if err != nil {
		return err
	}
	return os.WriteFile(p, []byte(token), 0o600)
}

// Load читает auth‑токен из файла.
func (s AuthFSStore) Load() (string, error) {
	p, err := s.tokenPath()
	if err != nil {
		return "", err
	}
	return readTrimmed(p, "empty token file")
}

// SaveLogin сохраняет имя пользователя в файл.
func (s AuthFSStore) SaveLogin(login string) error {
	if login == "" {
		return errors.New("empty login")
	}
	p, err := s.lastLoginPath()
	if err != nil {
		return err
	}
	return os.WriteFile(p, []byte(login), 0o600)
}

// LoadLogin читает имя пользователя из файла.
func (s AuthFSStore) LoadLogin() (string, error) {
	p, err := s.lastLoginPath()
	if err != nil {
		return "", err
	}
	return readTrimmed(p, "no stored login")
}
