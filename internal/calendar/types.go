package calendar

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

import (
	"net/http"
	"time"
)

type (
	// Metrics records calendar requests.
	Metrics interface {
		ObserveRequest(calendar, outcome string, started time.Time)
	}

	// HTTPDoer is satisfied by *http.Client.
	HTTPDoer interface {
		Do(req *http.Request) (*http.Response, error)
	}
)
