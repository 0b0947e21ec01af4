package controller

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/Septrum101/route53ddns/app/resolver"
	"github.com/Septrum101/route53ddns/app/store"
	"github.com/Septrum101/route53ddns/app/target"
	"github.com/Septrum101/route53ddns/common/ddns"
	"github.com/Septrum101/route53ddns/common/ddns/route53"
	"github.com/Septrum101/route53ddns/common/logger"
	"github.com/Septrum101/route53ddns/common/notify"
	"github.com/Septrum101/route53ddns/common/notify/pushplus"
	"github.com/Septrum101/route53ddns/common/notify/telegram"
	"github.com/Septrum101/route53ddns/config"
)

// New wires the collaborators described by c.
func New(c *config.Config, l log.FieldLogger) (*Service, error) {
	timeout := time.Second * time.Duration(c.Timeout)

	ddnsCli, err := route53.New(route53.Options{
		AccessKeyID:     c.AWS.AccessKeyID,
		SecretAccessKey: c.AWS.SecretAccessKey,
		Region:          c.AWS.Region,
		Profile:         c.AWS.Profile,
		TTL:             c.TTL,
		Timeout:         timeout,
	})
	if err != nil {
		return nil, err
	}

	notifier, err := buildNotifier(c.Notify)
	if err != nil {
		return nil, err
	}

	s := &Service{
		Resolver: resolver.New(c.Network, c.Resolver.Primary, c.Resolver.Secondary, timeout,
			logger.Component(l, "resolver")),
		Store:      store.New(afero.NewOsFs(), c.IPFilePath),
		DdnsClient: ddnsCli,
		Notifier:   notifier,
		Targets:    target.Parse(c.Targets, logger.Component(l, "target")),
		RecordType: ddns.RecordType(c.Network),
		Logger:     logger.Component(l, "controller"),
	}
	s.Logger.Debugf("%d target(s), record type %s, TTL %d", len(s.Targets), s.RecordType, c.TTL)

	return s, nil
}

func buildNotifier(c *config.Notify) (notify.Notify, error) {
	if c == nil || !c.Enable {
		return nil, nil
	}

	switch c.Provider {
	case "pushplus":
		return pushplus.New(c.Config)
	case "telegram":
		return telegram.New(c.Config)
	default:
		return nil, fmt.Errorf("unsupported notify provider %q", c.Provider)
	}
}
