package usecase

import (
	"context"
	"net/http"
	"strings"

	"fooddash/internal/domain/model"
	"fooddash/internal/portal"
	"fooddash/internal/session"

	"github.com/sirupsen/logrus"
)

// SessionUsecase は3ロールのログイン・サインアップ・ログアウトとプロフィール更新。
// バックエンドが成功した時だけセッションを書き換える。
type SessionUsecase struct {
	workspaces Workspaces
	accounts   AccountBackend
	validator  AccountValidator
	events     *Events
	log        logrus.FieldLogger
}

// DI
func NewSessionUsecase(
	workspaces Workspaces,
	accounts AccountBackend,
	validator AccountValidator,
	events *Events,
	log logrus.FieldLogger,
) *SessionUsecase {
	return &SessionUsecase{
		workspaces: workspaces,
		accounts:   accounts,
		validator:  validator,
		events:     events,
		log:        log,
	}
}

// GetSessions は3ロール分の状態を返す。
func (u *SessionUsecase) GetSessions(ctx context.Context, deviceID string) (session.View, error) {
	var out session.View
	err := u.workspaces.With(ctx, deviceID, func(ws *portal.Workspace) error {
		out = ws.Sessions.View()
		return nil
	})
	return out, err
}

// GetSession はロール1つ分の状態（model.AuthSession[P]）を返す。
func (u *SessionUsecase) GetSession(ctx context.Context, deviceID string, role model.Role) (interface{}, error) {
	var out interface{}
	err := u.workspaces.With(ctx, deviceID, func(ws *portal.Workspace) error {
		out = roleState(ws.Sessions, role)
		return nil
	})
	return out, err
}

// IsAuthenticated はルートガード用。
func (u *SessionUsecase) IsAuthenticated(ctx context.Context, deviceID string, role model.Role) (bool, error) {
	var ok bool
	err := u.workspaces.With(ctx, deviceID, func(ws *portal.Workspace) error {
		ok = ws.Sessions.Authenticated(role)
		return nil
	})
	return ok, err
}

// Login はバックエンドで認証し、成功したらロールのセッションを開始する。
func (u *SessionUsecase) Login(ctx context.Context, deviceID string, role model.Role, in model.Credentials) (interface{}, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := u.validator.ValidateLogin(ctx, in); err != nil {
		return nil, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	switch role {
	case model.RoleCustomer:
		p, err := u.accounts.CustomerLogin(ctx, in)
		if err != nil {
			return nil, loginError(err)
		}
		return u.startSession(ctx, deviceID, role, p.ID, func(s *session.Sessions) error {
			return s.Customer.Login(ctx, p)
		})
	case model.RoleDasher:
		p, err := u.accounts.DasherLogin(ctx, in)
		if err != nil {
			return nil, loginError(err)
		}
		return u.startSession(ctx, deviceID, role, p.ID, func(s *session.Sessions) error {
			return s.Dasher.Login(ctx, p)
		})
	case model.RoleRestaurant:
		p, err := u.accounts.RestaurantLogin(ctx, in)
		if err != nil {
			return nil, loginError(err)
		}
		return u.startSession(ctx, deviceID, role, p.ID, func(s *session.Sessions) error {
			return s.Restaurant.Login(ctx, p)
		})
	}
	return nil, NewHTTPError(http.StatusNotFound, "unknown role")
}

func (u *SessionUsecase) SignupCustomer(ctx context.Context, deviceID string, in model.CustomerSignup) (interface{}, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := u.validator.ValidateCustomerSignup(ctx, in); err != nil {
		return nil, NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := u.accounts.CustomerSignup(ctx, in)
	if err != nil {
		return nil, backendError(err)
	}
	return u.startSession(ctx, deviceID, model.RoleCustomer, p.ID, func(s *session.Sessions) error {
		return s.Customer.Login(ctx, p)
	})
}

func (u *SessionUsecase) SignupDasher(ctx context.Context, deviceID string, in model.DasherSignup) (interface{}, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := u.validator.ValidateDasherSignup(ctx, in); err != nil {
		return nil, NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := u.accounts.DasherSignup(ctx, in)
	if err != nil {
		return nil, backendError(err)
	}
	return u.startSession(ctx, deviceID, model.RoleDasher, p.ID, func(s *session.Sessions) error {
		return s.Dasher.Login(ctx, p)
	})
}

func (u *SessionUsecase) SignupRestaurant(ctx context.Context, deviceID string, in model.RestaurantSignup) (interface{}, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := u.validator.ValidateRestaurantSignup(ctx, in); err != nil {
		return nil, NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := u.accounts.RestaurantSignup(ctx, in)
	if err != nil {
		return nil, backendError(err)
	}
	return u.startSession(ctx, deviceID, model.RoleRestaurant, p.ID, func(s *session.Sessions) error {
		return s.Restaurant.Login(ctx, p)
	})
}

// Logout はロール1つだけログアウトする。他ロールとカートはそのまま。
func (u *SessionUsecase) Logout(ctx context.Context, deviceID string, role model.Role) error {
	if _, err := model.ParseRole(string(role)); err != nil {
		return NewHTTPError(http.StatusNotFound, "unknown role")
	}

	err := u.workspaces.With(ctx, deviceID, func(ws *portal.Workspace) error {
		if err := ws.Sessions.Logout(ctx, role); err != nil {
			u.mirrorFailed(err, deviceID, role)
		}
		return nil
	})
	if err != nil {
		return err
	}

	u.events.Emit(ctx, model.PortalEvent{
		Action:       model.AuditActionSessionLogout,
		DeviceID:     deviceID,
		Role:         role,
		ResourceType: model.AuditResourceSession,
		ResourceID:   string(role),
	})
	return nil
}

// UpdateCustomer はログイン中の顧客のプロフィールを更新する。
func (u *SessionUsecase) UpdateCustomer(ctx context.Context, deviceID string, in model.Customer) (model.AuthSession[model.Customer], error) {
	var out model.AuthSession[model.Customer]
	err := u.workspaces.With(ctx, deviceID, func(ws *portal.Workspace) error {
		cur, ok := ws.Sessions.Customer.Profile()
		if !ok {
			return NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		in.ID = cur.ID
		// 支払い情報は専用APIでだけ変える
		in.PaymentInfo = cur.PaymentInfo

		updated, err := u.accounts.UpdateCustomer(ctx, cur.ID, in)
		if err != nil {
			return backendError(err)
		}
		if err := ws.Sessions.Customer.SetProfile(ctx, updated); err != nil {
			u.mirrorFailed(err, deviceID, model.RoleCustomer)
		}
		out = ws.Sessions.Customer.State()
		return nil
	})
	if err != nil {
		return model.AuthSession[model.Customer]{}, err
	}
	u.emitProfileUpdate(ctx, deviceID, model.RoleCustomer, out.Profile.ID)
	return out, nil
}

func (u *SessionUsecase) UpdateDasher(ctx context.Context, deviceID string, in model.Dasher) (model.AuthSession[model.Dasher], error) {
	var out model.AuthSession[model.Dasher]
	err := u.workspaces.With(ctx, deviceID, func(ws *portal.Workspace) error {
		cur, ok := ws.Sessions.Dasher.Profile()
		if !ok {
			return NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		in.ID = cur.ID

		updated, err := u.accounts.UpdateDasher(ctx, cur.ID, in)
		if err != nil {
			return backendError(err)
		}
		if err := ws.Sessions.Dasher.SetProfile(ctx, updated); err != nil {
			u.mirrorFailed(err, deviceID, model.RoleDasher)
		}
		out = ws.Sessions.Dasher.State()
		return nil
	})
	if err != nil {
		return model.AuthSession[model.Dasher]{}, err
	}
	u.emitProfileUpdate(ctx, deviceID, model.RoleDasher, out.Profile.ID)
	return out, nil
}

func (u *SessionUsecase) UpdateRestaurant(ctx context.Context, deviceID string, in model.Restaurant) (model.AuthSession[model.Restaurant], error) {
	var out model.AuthSession[model.Restaurant]
	err := u.workspaces.With(ctx, deviceID, func(ws *portal.Workspace) error {
		cur, ok := ws.Sessions.Restaurant.Profile()
		if !ok {
			return NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		in.ID = cur.ID
		// メニューは別API
		in.Dishes = nil

		updated, err := u.accounts.UpdateRestaurant(ctx, cur.ID, in)
		if err != nil {
			return backendError(err)
		}
		if err := ws.Sessions.Restaurant.SetProfile(ctx, updated); err != nil {
			u.mirrorFailed(err, deviceID, model.RoleRestaurant)
		}
		out = ws.Sessions.Restaurant.State()
		return nil
	})
	if err != nil {
		return model.AuthSession[model.Restaurant]{}, err
	}
	u.emitProfileUpdate(ctx, deviceID, model.RoleRestaurant, out.Profile.ID)
	return out, nil
}

func (u *SessionUsecase) startSession(ctx context.Context, deviceID string, role model.Role, actorID string, login func(s *session.Sessions) error) (interface{}, error) {
	var out interface{}
	err := u.workspaces.With(ctx, deviceID, func(ws *portal.Workspace) error {
		if err := login(ws.Sessions); err != nil {
			u.mirrorFailed(err, deviceID, role)
		}
		out = roleState(ws.Sessions, role)
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.events.Emit(ctx, model.PortalEvent{
		Action:       model.AuditActionSessionLogin,
		DeviceID:     deviceID,
		Role:         role,
		ActorID:      actorID,
		ResourceType: model.AuditResourceSession,
		ResourceID:   string(role),
	})
	return out, nil
}

func (u *SessionUsecase) emitProfileUpdate(ctx context.Context, deviceID string, role model.Role, actorID string) {
	u.events.Emit(ctx, model.PortalEvent{
		Action:       model.AuditActionUpdateProfile,
		DeviceID:     deviceID,
		Role:         role,
		ActorID:      actorID,
		ResourceType: model.AuditResourceSession,
		ResourceID:   string(role),
	})
}

// 永続化の失敗はログだけ（メモリ上の状態は反映済み）
func (u *SessionUsecase) mirrorFailed(err error, deviceID string, role model.Role) {
	u.log.WithError(err).WithFields(logrus.Fields{
		"device_id": deviceID,
		"role":      role,
	}).Warn("session mirror failed")
}

// ログイン失敗は401に寄せる（バックエンドの文言はそのまま）
func loginError(err error) error {
	he, _ := AsHTTPError(backendError(err))
	if he.Status == http.StatusNotFound || he.Status == http.StatusBadRequest {
		return NewHTTPError(http.StatusUnauthorized, he.Message)
	}
	return he
}

func roleState(s *session.Sessions, role model.Role) interface{} {
	switch role {
	case model.RoleCustomer:
		return s.Customer.State()
	case model.RoleDasher:
		return s.Dasher.State()
	case model.RoleRestaurant:
		return s.Restaurant.State()
	}
	return nil
}
