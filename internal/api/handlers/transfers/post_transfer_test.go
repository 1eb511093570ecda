package transfers_test

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/portal-hq/portalex/internal/api"
	"github.com/portal-hq/portalex/internal/api/httperrors"
	"github.com/portal-hq/portalex/internal/test"
	"github.com/portal-hq/portalex/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const to = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"

func TestPostTransfer(t *testing.T) {
	test.WithTestServerGateway(t, func(s *api.Server, gw *test.FakeGateway, _ *test.FakeUsers) {
		res := test.PerformRequest(t, s, "POST", "/api/v1/transfers", test.GenericPayload{
			"to":      to,
			"amount":  "0.01",
			"chainId": test.SepoliaChainID,
		}, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		var body types.TransferResponse
		test.ParseResponseAndValidate(t, res, &body)
		assert.NotEmpty(t, body.RequestID)
		require.Len(t, body.Attempts, 1)
		assert.Equal(t, uint64(0), body.Attempts[0].Nonce)

		// (10 + 1) gwei * 200% 低于 25 gwei 下限
		assert.Equal(t, test.Gwei(25).String(), body.Attempts[0].FeePerGas)
		require.Len(t, gw.Accepted(), 1)
		assert.Equal(t, body.TxHash, gw.Accepted()[0].Hash().Hex())
	})
}

func TestPostTransferRetriesNonceConflict(t *testing.T) {
	test.WithTestServerGateway(t, func(s *api.Server, gw *test.FakeGateway, _ *test.FakeUsers) {
		var failures atomic.Int32
		gw.OnSubmit = func(_ context.Context, _ *ethtypes.Transaction, attempt int) error {
			if attempt == 1 {
				failures.Add(1)
				return errors.New("nonce too low")
			}
			return nil
		}

		res := test.PerformRequest(t, s, "POST", "/api/v1/transfers", test.GenericPayload{
			"to":      to,
			"amount":  "0.01",
			"chainId": test.SepoliaChainID,
		}, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		var body types.TransferResponse
		test.ParseResponseAndValidate(t, res, &body)
		require.Len(t, body.Attempts, 2)
		assert.Equal(t, "retry_scheduled", body.Attempts[0].Outcome)
		assert.Contains(t, body.Attempts[0].Error, "nonce too low")
		assert.Equal(t, "succeeded", body.Attempts[1].Outcome)
		assert.Equal(t, int32(1), failures.Load())
	})
}

func TestPostTransferValidation(t *testing.T) {
	tests := []struct {
		name    string
		payload test.GenericPayload
		status  int
		errType string
	}{
		{"missing chain", test.GenericPayload{"to": to, "amount": "0.01"}, http.StatusBadRequest, ""},
		{"missing amount", test.GenericPayload{"to": to, "chainId": test.SepoliaChainID}, http.StatusBadRequest, httperrors.TypeInvalidAmount},
		{"zero amount", test.GenericPayload{"to": to, "amount": "0", "chainId": test.SepoliaChainID}, http.StatusBadRequest, httperrors.TypeInvalidAmount},
		{"too precise", test.GenericPayload{"to": to, "amount": "0.0000000000000000001", "chainId": test.SepoliaChainID}, http.StatusBadRequest, httperrors.TypeInvalidAmount},
		{"bad address", test.GenericPayload{"to": "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAeD", "amount": "0.01", "chainId": test.SepoliaChainID}, http.StatusBadRequest, httperrors.TypeInvalidAddress},
		{"unsupported chain", test.GenericPayload{"to": to, "amount": "0.01", "chainId": 1}, http.StatusBadRequest, httperrors.TypeUnsupportedChain},
		{"insufficient balance", test.GenericPayload{"to": to, "amount": "2", "chainId": test.SepoliaChainID}, http.StatusConflict, httperrors.TypeInsufficientBalance},
	}

	test.WithTestServerGateway(t, func(s *api.Server, gw *test.FakeGateway, _ *test.FakeUsers) {
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				res := test.PerformRequest(t, s, "POST", "/api/v1/transfers", tt.payload, nil)
				require.Equal(t, tt.status, res.Result().StatusCode)

				if len(tt.errType) > 0 {
					var body httperrors.HTTPError
					test.ParseResponseAndValidate(t, res, &body)
					assert.Equal(t, tt.errType, *body.Type)
				}
			})
		}

		assert.Equal(t, int32(0), gw.SubmitCalls.Load())
	})
}

func TestPostTransferMalformedBody(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "POST", "/api/v1/transfers", test.GenericPayload{"amount": true}, nil)
		assert.Equal(t, http.StatusBadRequest, res.Result().StatusCode)
	})
}
