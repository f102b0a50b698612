package handler

import (
	familydomain "familycart-go/internal/domain/family"
	grocerydomain "familycart-go/internal/domain/grocery"
	userdomain "familycart-go/internal/domain/user"
	"familycart-go/pkg/logger"
)

type Handlers struct {
	Users    *userdomain.Service
	Families *familydomain.Service
	Grocery  *grocerydomain.Service

	log logger.Logger
}

func New(users *userdomain.Service, families *familydomain.Service, grocery *grocerydomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Users:    users,
		Families: families,
		Grocery:  grocery,
		log:      log,
	}
}
