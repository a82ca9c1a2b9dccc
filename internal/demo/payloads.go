package demo

// User is the account shape the auth endpoints return.
type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

// LoginResponse is the body of POST /auth/login.
type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// RegisterResponse is the body of POST /auth/register.
type RegisterResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

// MessageResponse is the body of the password reset/forgot/verify endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// FieldSummary is one entry of the dashboard field list.
type FieldSummary struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// DashboardResponse is the body of GET /dashboard.
type DashboardResponse struct {
	Fields []FieldSummary `json:"fields"`
}

// FieldDetail carries the sensor readings of a single field. The backend
// sends coordinates and readings as display strings.
type FieldDetail struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Long        string `json:"long"`
	Lat         string `json:"lat"`
	Size        string `json:"size"`
	Temperature string `json:"temperature"`
	Moisture    string `json:"moisture"`
	Humidity    string `json:"humidity"`
}

// FieldResponse is the body of GET /fields/{id}.
type FieldResponse struct {
	Field FieldDetail `json:"field"`
}

// Prediction is one pest/disease classification.
type Prediction struct {
	Name            string   `json:"name"`
	Class           string   `json:"class"`
	ConfidenceScore float64  `json:"confidence_score"`
	Tips            []string `json:"tips"`
}

// Predictions wraps the prediction list.
type Predictions struct {
	Predictions []Prediction `json:"predictions"`
}

// DetectResponse is the body of POST /pests/detect.
type DetectResponse struct {
	Data Predictions `json:"data"`
}

// Canned values returned by the default routes.
const (
	AccessToken  = "demo-access-token"
	RefreshToken = "demo-refresh-token"
)

// DemoUser is returned by login and register.
var DemoUser = User{
	Name:  "Demo User",
	Email: "demo@example.com",
	Phone: "+1234567890",
	Role:  "demo",
}
