package demo

import (
	"net/http"
	"strings"
)

// Reply is a canned status and body. Body is encoded as JSON.
type Reply struct {
	Status int
	Body   any
}

// Route pairs a method and a path matcher with the reply it produces.
// Method is compared upper-cased.
type Route struct {
	Name   string
	Method string
	Match  func(path string) bool
	Build  func() Reply
}

// HasSuffix matches paths ending in any of the suffixes.
func HasSuffix(suffixes ...string) func(string) bool {
	return func(path string) bool {
		for _, s := range suffixes {
			if strings.HasSuffix(path, s) {
				return true
			}
		}
		return false
	}
}

// Contains matches paths containing any of the fragments.
func Contains(fragments ...string) func(string) bool {
	return func(path string) bool {
		for _, f := range fragments {
			if strings.Contains(path, f) {
				return true
			}
		}
		return false
	}
}

// fallback answers every request no route claims.
var fallback = Reply{Status: http.StatusOK, Body: struct{}{}}

// DefaultRoutes returns the canned backend, in match order.
func DefaultRoutes() []Route {
	return []Route{
		{
			Name:   "login",
			Method: http.MethodPost,
			Match:  HasSuffix("/auth/login"),
			Build: func() Reply {
				return Reply{Status: http.StatusOK, Body: LoginResponse{
					AccessToken:  AccessToken,
					RefreshToken: RefreshToken,
					User:         DemoUser,
				}}
			},
		},
		{
			Name:   "register",
			Method: http.MethodPost,
			Match:  Contains("/auth/register"),
			Build: func() Reply {
				return Reply{Status: http.StatusCreated, Body: RegisterResponse{
					Message: "Registered (demo) successfully",
					User:    DemoUser,
				}}
			},
		},
		{
			Name:   "account-recovery",
			Method: http.MethodPost,
			Match:  Contains("/auth/reset", "/auth/forgot", "/auth/verify"),
			Build: func() Reply {
				return Reply{Status: http.StatusOK, Body: MessageResponse{Message: "OK (demo)"}}
			},
		},
		{
			Name:   "dashboard",
			Method: http.MethodGet,
			Match:  HasSuffix("/dashboard", "/dashboard/"),
			Build: func() Reply {
				return Reply{Status: http.StatusOK, Body: DashboardResponse{
					Fields: []FieldSummary{
						{ID: 1, Name: "Demo Field A"},
						{ID: 2, Name: "Demo Field B"},
					},
				}}
			},
		},
		{
			Name:   "field-detail",
			Method: http.MethodGet,
			Match:  Contains("/fields/"),
			Build: func() Reply {
				return Reply{Status: http.StatusOK, Body: FieldResponse{
					Field: FieldDetail{
						ID:          1,
						Name:        "Demo Field A",
						Long:        "30.0605",
						Lat:         "-1.9441",
						Size:        "10 ha",
						Temperature: "24°C",
						Moisture:    "55%",
						Humidity:    "68%",
					},
				}}
			},
		},
		{
			Name:   "pest-detect",
			Method: http.MethodPost,
			Match:  HasSuffix("/pests/detect"),
			Build: func() Reply {
				return Reply{Status: http.StatusOK, Body: DetectResponse{
					Data: Predictions{Predictions: []Prediction{{
						Name:            "Healthy plant",
						Class:           "4 Healthy plant",
						ConfidenceScore: 0.92,
						Tips: []string{
							"Water consistently and avoid overwatering.",
							"Provide at least 6 hours of sunlight daily.",
						},
					}}},
				}}
			},
		},
	}
}
