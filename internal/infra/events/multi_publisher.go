// Package events はポータルイベントの配送先（Kafka / 監査ログ）。
package events

import (
	"context"
	"errors"

	"fooddash/internal/domain/model"
)

type publisher interface {
	Publish(ctx context.Context, ev model.PortalEvent) error
}

// MultiPublisher は全配送先へ送る。1つ失敗しても残りには送る。
type MultiPublisher struct {
	targets []publisher
}

func NewMultiPublisher(targets ...publisher) *MultiPublisher {
	return &MultiPublisher{targets: targets}
}

func (m *MultiPublisher) Publish(ctx context.Context, ev model.PortalEvent) error {
	var errs []error
	for _, t := range m.targets {
		if err := t.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
