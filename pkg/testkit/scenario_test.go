// Package testkit_test exercises the scenario runner against a minimal
// handler. The controller packages use the same entry points against
// real routers; see app/controllers for an end-to-end example.
package testkit_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/angotech/angotech/pkg/testkit"
)

// testHandler is a tiny http.Handler that powers the testkit self-tests.
var testHandler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/health":
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	default:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}`)) //nolint:errcheck
	}
})

// TestRunHealthCheckScenario runs a full scenario file: request fired,
// status asserted, response body JSON-diffed against the fixture.
func TestRunHealthCheckScenario(t *testing.T) {
	testkit.Run(t, testHandler, "fixtures/health_check.json")
}

// TestPlaceOrderScenarioMetadata loads the checkout scenario and checks
// that mock steps and custom mocker expectations wire up as documented.
func TestPlaceOrderScenarioMetadata(t *testing.T) {
	// A custom sendmail mocker with an explicit expectation replaces
	// the default registry entry for this test.
	mailer := testkit.NewFuncMocker("sendmail")
	mailer.Mock().On("Intercept", mock.AnythingOfType("[]uint8")).Return(nil)
	testkit.RegisterMocker("sendmail", mailer)

	s, err := testkit.LoadScenario("fixtures/place_order.json")
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	testkit.DumpScenario(s)

	assert.Equal(t, "Place Order - Webhook + Confirmation Email", s.Name)
	assert.Equal(t, "POST", s.RequestMethod)
	assert.Equal(t, 201, s.ExpectedCode)
	assert.True(t, s.IsMockRequired)
	assert.Len(t, s.NetUtilMockStep, 2)
	assert.NotEmpty(t, s.RequestBodyPath())

	httpStep := s.NetUtilMockStep[0]
	assert.Equal(t, "httprequest", httpStep.Method)
	assert.True(t, httpStep.IsMock)
	assert.Equal(t, "https://hooks.angotech.ao/orders", httpStep.MatchURL)
	assert.NotEmpty(t, httpStep.ReturnData.Body) // base64

	mailStep := s.NetUtilMockStep[1]
	assert.Equal(t, "sendmail", mailStep.Method)
	assert.True(t, mailStep.IsMock)
}

// TestMockTransportURLMatching verifies the transport matches the
// outgoing URL and decodes the base64 response body.
func TestMockTransportURLMatching(t *testing.T) {
	s := &testkit.Scenario{
		Name:           "mock transport test",
		IsMockRequired: true,
		ExpectedCode:   200,
		RequestURL:     "/anything",
		RequestMethod:  "GET",
		NetUtilMockStep: []testkit.MockStep{
			{
				Method:   "httprequest",
				IsMock:   true,
				MatchURL: "https://hooks.angotech.ao/",
				ReturnData: testkit.MockReturnData{
					StatusCode: 200,
					// base64("{"ok":true}")
					Body: "eyJvayI6dHJ1ZX0=",
				},
			},
		},
	}

	mt := testkit.NewMockTransport(s)

	req := httptest.NewRequest(http.MethodPost, "https://hooks.angotech.ao/orders", nil)
	resp, err := mt.RoundTrip(req)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	errs := mt.AssertAllCalled()
	assert.Empty(t, errs, "all HTTP mock steps should have been called")
}

// TestMockTransportUnmatchedCallFails verifies that an unmatched
// outgoing call errors when isMockRequired is true.
func TestMockTransportUnmatchedCallFails(t *testing.T) {
	s := &testkit.Scenario{
		Name:           "unmatched mock",
		IsMockRequired: true,
		ExpectedCode:   200,
		RequestURL:     "/anything",
		RequestMethod:  "GET",
		NetUtilMockStep: []testkit.MockStep{
			{
				Method:     "httprequest",
				IsMock:     true,
				MatchURL:   "https://hooks.angotech.ao/",
				ReturnData: testkit.MockReturnData{StatusCode: 200},
			},
		},
	}

	mt := testkit.NewMockTransport(s)

	req := httptest.NewRequest(http.MethodGet, "https://somewhere-else.example/api", nil)
	_, err := mt.RoundTrip(req)

	assert.Error(t, err, "should fail on unmatched URL when isMockRequired=true")
}

// TestAssertJSONBody verifies key order and whitespace never matter.
func TestAssertJSONBody(t *testing.T) {
	s := &testkit.Scenario{Name: "json assert test", ExpectedCode: 200}

	expected := []byte(`{"name":"Ana","age":30}`)
	actual := []byte(`{"age":  30, "name": "Ana"}`)
	testkit.AssertJSONBody(t, s, expected, actual)
}
