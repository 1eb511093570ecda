package signer

import (
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
)

// SignTransfer signs a native transfer. EIP-1559 fee params produce a DynamicFeeTx,
// a plain gas price produces an EIP-155 legacy transaction.
func SignTransfer(key *ecdsa.PrivateKey, req *TransferRequest) (*types.Transaction, error) {
	if key == nil {
		return nil, errors.New("private key is required")
	}
	if req == nil || req.Fee == nil {
		return nil, errors.New("fee params are required")
	}
	if req.Value == nil || req.Value.Sign() < 0 {
		return nil, errors.New("invalid value")
	}

	chainID := big.NewInt(req.ChainID)
	to := req.To

	var (
		tx     *types.Transaction
		signer types.Signer
	)

	switch {
	case req.Fee.DynamicFee():
		tip := req.Fee.MaxPriorityFeePerGas
		if tip == nil {
			tip = new(big.Int)
		}
		tx = types.NewTx(&types.DynamicFeeTx{
			ChainID:   chainID,
			Nonce:     req.Nonce,
			GasTipCap: tip,
			GasFeeCap: req.Fee.MaxFeePerGas,
			Gas:       req.GasLimit,
			To:        &to,
			Value:     req.Value,
		})
		signer = types.NewLondonSigner(chainID)
	case req.Fee.GasPrice != nil:
		tx = types.NewTx(&types.LegacyTx{
			Nonce:    req.Nonce,
			GasPrice: req.Fee.GasPrice,
			Gas:      req.GasLimit,
			To:       &to,
			Value:    req.Value,
		})
		signer = types.NewEIP155Signer(chainID)
	default:
		return nil, errors.New("fee params have neither max fee nor gas price")
	}

	signedTx, err := types.SignTx(tx, signer, key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign transaction")
	}

	return signedTx, nil
}
