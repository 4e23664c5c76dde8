package usecase

import (
	"context"
	"encoding/json"

	"fooddash/internal/domain/model"

	"github.com/sirupsen/logrus"
)

// Events はPortalEventにIDと時刻を付けて送る。
// 送信失敗は業務処理を止めない（ログのみ）。
type Events struct {
	pub   EventPublisher
	idGen IDGenerator
	clock Clock
	log   logrus.FieldLogger
}

// DI
func NewEvents(pub EventPublisher, idGen IDGenerator, clock Clock, log logrus.FieldLogger) *Events {
	return &Events{pub: pub, idGen: idGen, clock: clock, log: log}
}

func (e *Events) Emit(ctx context.Context, ev model.PortalEvent) {
	if e == nil || e.pub == nil {
		return
	}
	ev.ID = e.idGen.NewID()
	ev.OccurredAt = e.clock.Now()

	if err := e.pub.Publish(ctx, ev); err != nil {
		e.log.WithError(err).WithFields(logrus.Fields{
			"action":    ev.Action,
			"device_id": ev.DeviceID,
		}).Warn("event publish failed")
	}
}

// before/afterをJSON文字列にする。失敗したら空
func toJSON(v interface{}) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
