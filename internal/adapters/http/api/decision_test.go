package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseLoanRequest(t *testing.T) {
	Convey("Given query parameters", t, func() {
		Convey("When all three are present", func() {
			req, err := parseLoanRequest(url.Values{
				"personalCode": {"49002010976"},
				"loanAmount":   {"4000"},
				"loanPeriod":   {"40"},
			})

			Convey("Then they should be bound", func() {
				So(err, ShouldBeNil)
				So(req.PersonalCode, ShouldEqual, "49002010976")
				So(req.Amount, ShouldEqual, 4000)
				So(req.Period, ShouldEqual, 40)
			})
		})

		Convey("When the personal code is empty but present", func() {
			req, err := parseLoanRequest(url.Values{
				"personalCode": {""},
				"loanAmount":   {"4000"},
				"loanPeriod":   {"40"},
			})

			Convey("Then it should be accepted as an unknown applicant", func() {
				So(err, ShouldBeNil)
				So(req.PersonalCode, ShouldBeEmpty)
			})
		})

		Convey("When a parameter is missing", func() {
			_, err := parseLoanRequest(url.Values{"personalCode": {"x"}, "loanAmount": {"4000"}})

			Convey("Then ErrMissingParam should be returned", func() {
				So(errors.Is(err, ErrMissingParam), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "loanPeriod")
			})
		})

		Convey("When a number is malformed", func() {
			_, err := parseLoanRequest(url.Values{"personalCode": {"x"}, "loanAmount": {"4k"}, "loanPeriod": {"40"}})

			Convey("Then ErrInvalidParam should be returned", func() {
				So(errors.Is(err, ErrInvalidParam), ShouldBeTrue)
			})
		})

		Convey("When a number is negative", func() {
			req, err := parseLoanRequest(url.Values{"personalCode": {"x"}, "loanAmount": {"-4000"}, "loanPeriod": {"40"}})

			Convey("Then it should bind and be left to bounds validation", func() {
				So(err, ShouldBeNil)
				So(req.Amount, ShouldEqual, -4000)
			})
		})
	})
}

func TestGetErrorType(t *testing.T) {
	Convey("Given HTTP status codes", t, func() {
		So(getErrorType(500), ShouldEqual, "server_error")
		So(getErrorType(429), ShouldEqual, "rate_limit")
		So(getErrorType(405), ShouldEqual, "method_not_allowed")
		So(getErrorType(404), ShouldEqual, "not_found")
		So(getErrorType(400), ShouldEqual, "client_error")
		So(getErrorType(200), ShouldEqual, "unknown")
		So(getErrorSeverity(503), ShouldEqual, "high")
		So(getErrorSeverity(400), ShouldEqual, "medium")
		So(getErrorSeverity(200), ShouldEqual, "low")
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	Convey("Given a handler behind the request id middleware", t, func() {
		var seen string
		h := RequestIDMiddleware(func(w http.ResponseWriter, r *http.Request) {
			seen = RequestIDFromContext(r.Context())
		})

		Convey("When the caller sends an id", func() {
			req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			req.Header.Set(HeaderRequestID, " abc ")
			w := httptest.NewRecorder()
			h(w, req)

			Convey("Then the trimmed id should reach the handler and the response", func() {
				So(seen, ShouldEqual, "abc")
				So(w.Header().Get(HeaderRequestID), ShouldEqual, "abc")
			})
		})

		Convey("Then a bare context should have no id", func() {
			So(RequestIDFromContext(context.Background()), ShouldBeEmpty)
		})
	})
}
