package authenticating

import "errors"

var (
	ErrMissingSecretKey = errors.New("SECRET_KEY não configurada")
	ErrInvalidToken     = errors.New("token inválido")
	ErrExpiredToken     = errors.New("token expirado")
	ErrInvalidRole      = errors.New("role inválida")
)
