package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrUnauthorized    = errors.New("no autorizado")
	ErrForbidden       = errors.New("acceso denegado")
	ErrInvalidCatalog  = errors.New("catálogo de precios inválido")
	ErrSessionNotFound = errors.New("sesión de cotización no encontrada")
	ErrUnknownTier     = errors.New("plan no existe en el catálogo")
	ErrDuplicate       = errors.New("recurso duplicado")
)
