package notify

import (
	"log/slog"

	"contactus-backend/config"
)

// FromConfig assembles the notifiers enabled in cfg. A NATS connection
// failure is returned; with nothing enabled the result is Noop.
func FromConfig(cfg *config.Config, logger *slog.Logger) (Notifier, error) {
	var out Multi
	if cfg.Email.Enabled {
		out = append(out, NewEmail(cfg.Email))
		logger.Info("email notifications enabled", slog.Int("recipients", len(cfg.Email.To)))
	}
	if cfg.Nats.URL != "" {
		n, err := NewNATS(cfg.Nats.URL, cfg.Nats.Subject)
		if err != nil {
			_ = out.Close()
			return nil, err
		}
		out = append(out, n)
		logger.Info("nats notifications enabled", slog.String("subject", n.subject))
	}
	if len(out) == 0 {
		return Noop{}, nil
	}
	return out, nil
}
