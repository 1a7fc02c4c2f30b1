package state

import (
	"github.com/sidereusnuntius/jackut/internal/config"
	"github.com/sidereusnuntius/jackut/internal/storage"
)

type State struct {
	Storage storage.Storage
	Config  config.Configuration
}
