package usecase

import (
	"context"
	"net/http"
	"time"
)

// 端末トークンを発行する約束
type DeviceTokenIssuer interface {
	Issue(deviceID string, now time.Time) (token string, expiresAt time.Time, err error)
}

// token 形
type DeviceToken struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type DeviceOutput struct {
	DeviceID string      `json:"device_id"`
	Token    DeviceToken `json:"token"`
}

// DeviceUsecase は端末IDの払い出し。
// 端末IDがカート・セッションの名前空間になる。
type DeviceUsecase struct {
	issuer DeviceTokenIssuer
	idGen  IDGenerator
	clock  Clock
}

// DI
func NewDeviceUsecase(issuer DeviceTokenIssuer, idGen IDGenerator, clock Clock) *DeviceUsecase {
	return &DeviceUsecase{issuer: issuer, idGen: idGen, clock: clock}
}

func (u *DeviceUsecase) Register(ctx context.Context) (DeviceOutput, error) {
	now := u.clock.Now()
	deviceID := u.idGen.NewID()

	token, expiresAt, err := u.issuer.Issue(deviceID, now)
	if err != nil {
		return DeviceOutput{}, NewHTTPError(http.StatusInternalServerError, "token error")
	}

	return DeviceOutput{
		DeviceID: deviceID,
		Token: DeviceToken{
			AccessToken: token,
			ExpiresIn:   int(expiresAt.Sub(now).Seconds()),
		},
	}, nil
}
