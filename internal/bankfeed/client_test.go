package bankfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{
		BaseURL:    srv.URL,
		ClientID:   "test-client",
		Secret:     "test-secret",
		MaxRetries: 1,
	})
}

func TestExchangePublicToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, exchangeEndpoint, r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "public-sandbox-123", body["public_token"])
		assert.Equal(t, "test-client", body["client_id"])
		assert.Equal(t, "test-secret", body["secret"])

		fmt.Fprint(w, `{"access_token":"access-sandbox-456","item_id":"item-789"}`)
	})

	token, itemID, err := client.ExchangePublicToken(context.Background(), "public-sandbox-123")
	require.NoError(t, err)
	assert.Equal(t, "access-sandbox-456", token)
	assert.Equal(t, "item-789", itemID)
}

func TestAccounts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"accounts":[
			{"account_id":"acc-1","name":"Checking","mask":"0000","type":"depository","balance":1203.42},
			{"account_id":"acc-2","name":"Credit Card","mask":"3333","type":"credit","balance":-410.50}
		]}`)
	})

	accounts, err := client.Accounts(context.Background(), "access-token")
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "Checking", accounts[0].Name)
	assert.Equal(t, "credit", accounts[1].Type)
}

func TestTransactionsPagination(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++

		var body struct {
			Options struct {
				Offset int `json:"offset"`
			} `json:"options"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		// Two pages of one transaction each.
		switch body.Options.Offset {
		case 0:
			fmt.Fprint(w, `{"transactions":[{"transaction_id":"t1","amount":-12.34,"personal_finance_category":"FOOD_AND_DRINK"}],"total_transactions":2}`)
		default:
			fmt.Fprint(w, `{"transactions":[{"transaction_id":"t2","amount":-5.00,"personal_finance_category":"TRANSPORTATION"}],"total_transactions":2}`)
		}
	})

	txns, err := client.Transactions(context.Background(), "access-token", "2025-06-01", "2025-06-30")
	require.NoError(t, err)
	assert.Len(t, txns, 2)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "t1", txns[0].TransactionID)
	assert.Equal(t, "t2", txns[1].TransactionID)
}

func TestProviderError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error_code":"INVALID_ACCESS_TOKEN","error_message":"could not find matching access token"}`)
	})

	_, err := client.Accounts(context.Background(), "bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID_ACCESS_TOKEN")
}

func TestUnexpectedStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		fmt.Fprint(w, `not json`)
	})

	_, _, err := client.ExchangePublicToken(context.Background(), "tok")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}
