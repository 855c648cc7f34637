package infrastructure

import (
	"github.com/google/uuid"

	"github.com/mateusmacedo/go-eventaggregator/pkg/application"
)

func NewSubscriptionID() application.SubscriptionID {
	return uuid.New()
}
