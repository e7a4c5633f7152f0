package models

import "time"

// TokenPair — результат обновления сессии по refresh-токену.
type TokenPair struct {
	AccessToken     string
	RefreshToken    string
	AccessExpiresAt time.Time
}

// LoginResult — ответ на успешный логин.
//
// RefreshToken пуст, если выпуск refresh-токена при логине выключен.
// Address пуст, если основного адреса нет или хранилище адресов
// недоступно при политике degrade.
type LoginResult struct {
	AccessToken     string
	RefreshToken    string
	AccessExpiresAt time.Time
	Email           string
	Name            string
	Address         string
	ProfileImageURL string
}
