package model

// 支払い情報（表示のみ。検証はしない）
type PaymentInfo struct {
	CardNumber     string `json:"cardNumber"`
	CardHolderName string `json:"cardHolderName"`
	ExpirationDate string `json:"expirationDate"`
	CVV            string `json:"cvv"`
}

// 顧客プロフィール（ログイン/更新時にバックエンドが返す）
type Customer struct {
	ID          string        `json:"id"`
	FirstName   string        `json:"firstName"`
	LastName    string        `json:"lastName"`
	Email       string        `json:"email"`
	Phone       string        `json:"phone"`
	Address     string        `json:"address"`
	PaymentInfo []PaymentInfo `json:"paymentInfo"`
}

// 配達員プロフィール
type Dasher struct {
	ID            string `json:"id"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	LicenseNumber string `json:"licenseNumber"`
	VehicleInfo   string `json:"vehicleInfo"`
}

// 店舗プロフィール
type Restaurant struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	ImageURL string `json:"imageUrl"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Dishes   []Dish `json:"dishes,omitempty"`
}

// ログイン入力（全ロール共通）
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CustomerSignup struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
}

type DasherSignup struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	Phone         string `json:"phone"`
	LicenseNumber string `json:"licenseNumber"`
	VehicleInfo   string `json:"vehicleInfo"`
}

type RestaurantSignup struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// ロールごとのセッション状態（authenticated ⇔ profile != nil）
type AuthSession[P any] struct {
	Authenticated bool `json:"authenticated"`
	Profile       *P   `json:"profile"`
}
