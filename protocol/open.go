package protocol

import (
	"fmt"

	"github.com/ajoprotocol/libajo-go/config"
	"github.com/ajoprotocol/libajo-go/custody"
	"github.com/ajoprotocol/libajo-go/store"
)

// Open builds a durable Service from a configuration: a bolt-backed
// account store under cfg.DataDir and a structured-log notifier at the
// configured level. The returned close function releases the database.
func Open(cfg config.Config, vault custody.Vault, opts ...Option) (*Service, func() error, error) {
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, nil, err
	}

	log, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("protocol: build logger: %w", err)
	}

	st, err := store.OpenBoltStore(config.DBPath(cfg.DataDir))
	if err != nil {
		return nil, nil, err
	}

	base := []Option{WithNotifier(NewLogNotifier(log))}
	svc := New(st, vault, append(base, opts...)...)

	closeFn := func() error {
		_ = log.Sync()
		return st.Close()
	}
	return svc, closeFn, nil
}
