package fee

import (
	"math/big"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"github.com/portal-hq/portalex/internal/wallet/gateway"
)

const (
	MinPremiumPercent = 100
	MaxPremiumPercent = 1000
	// MaxEscalationPercent 每个未确认交易最多增加的溢价百分点
	MaxEscalationPercent = 100
	percentBase          = 100
)

// Params 附加到交易上的手续费参数
// EIP-1559 链使用 MaxFeePerGas/MaxPriorityFeePerGas，否则使用 GasPrice
type Params struct {
	GasPrice             *big.Int
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
}

func (p *Params) DynamicFee() bool {
	return p != nil && p.MaxFeePerGas != nil
}

// PerGas returns the highest price per gas the sender may pay.
func (p *Params) PerGas() *big.Int {
	if p == nil {
		return nil
	}
	if p.DynamicFee() {
		return p.MaxFeePerGas
	}
	return p.GasPrice
}

// Input 单次计算的输入
type Input struct {
	Data *gateway.FeeData
	// Floor 每单位 gas 的最低价格，nil 表示不设下限
	Floor *big.Int
	// Pending 当前钱包未确认的交易数（pending nonce - latest nonce）
	Pending uint64
	// Previous 同一请求上一次尝试使用的手续费
	Previous *Params
}

type Strategy struct {
	premiumPercent    int64
	escalationPercent int64
}

// NewStrategy premium is the share of the observed fee to pay (200 = twice the observed fee),
// escalation the percentage points added per pending transaction.
func NewStrategy(premiumPercent int64, escalationPercent int64) (*Strategy, error) {
	if err := vala.BeginValidation().Validate(
		vala.GreaterThan(int(premiumPercent), MinPremiumPercent-1, "premiumPercent"),
		vala.Not(vala.GreaterThan(int(premiumPercent), MaxPremiumPercent, "premiumPercent")),
		vala.GreaterThan(int(escalationPercent), -1, "escalationPercent"),
		vala.Not(vala.GreaterThan(int(escalationPercent), MaxEscalationPercent, "escalationPercent")),
	).Check(); err != nil {
		return nil, errors.Wrap(err, "invalid fee strategy")
	}

	return &Strategy{
		premiumPercent:    premiumPercent,
		escalationPercent: escalationPercent,
	}, nil
}

// EffectivePremium 每个未确认交易使溢价增加 escalation 个百分点
func (s *Strategy) EffectivePremium(pending uint64) int64 {
	//nolint:gosec // pending 数量远小于 int64 上限
	return s.premiumPercent + s.escalationPercent*int64(pending)
}

// Compute 计算本次尝试的手续费，每次尝试都重新计算
func (s *Strategy) Compute(in Input) (*Params, error) {
	if in.Data == nil {
		return nil, errors.New("fee data is required")
	}

	premium := big.NewInt(s.EffectivePremium(in.Pending))

	if in.Data.DynamicFee() {
		return s.computeDynamic(in, premium), nil
	}

	if in.Data.GasPrice == nil {
		return nil, errors.New("fee data has neither base fee nor gas price")
	}

	gasPrice := maxInt(in.Floor, applyPercent(in.Data.GasPrice, premium))
	if in.Pending > 0 && in.Previous.PerGas() != nil {
		gasPrice = s.outbid(gasPrice, in.Previous.PerGas())
	}

	return &Params{GasPrice: gasPrice}, nil
}

func (s *Strategy) computeDynamic(in Input, premium *big.Int) *Params {
	priority := in.Data.PriorityFee
	if priority == nil {
		priority = new(big.Int)
	}

	observed := new(big.Int).Add(in.Data.BaseFee, priority)
	maxFee := maxInt(in.Floor, applyPercent(observed, premium))
	tip := minInt(maxFee, applyPercent(priority, premium))

	if in.Pending > 0 && in.Previous.DynamicFee() {
		maxFee = s.outbid(maxFee, in.Previous.MaxFeePerGas)
		if in.Previous.MaxPriorityFeePerGas != nil {
			tip = minInt(maxFee, s.outbid(tip, in.Previous.MaxPriorityFeePerGas))
		}
	}

	return &Params{
		MaxFeePerGas:         maxFee,
		MaxPriorityFeePerGas: tip,
	}
}

// outbid 保证同 nonce 重新提交时价格严格高于上一次，且至少提高 escalation%
func (s *Strategy) outbid(candidate *big.Int, previous *big.Int) *big.Int {
	minimum := applyPercent(previous, big.NewInt(percentBase+s.escalationPercent))
	if minimum.Cmp(previous) <= 0 {
		minimum = new(big.Int).Add(previous, big.NewInt(1))
	}

	return maxInt(candidate, minimum)
}

func applyPercent(v *big.Int, percent *big.Int) *big.Int {
	out := new(big.Int).Mul(v, percent)
	return out.Quo(out, big.NewInt(percentBase))
}

func maxInt(a *big.Int, b *big.Int) *big.Int {
	if a == nil {
		return new(big.Int).Set(b)
	}
	if a.Cmp(b) > 0 {
		return new(big.Int).Set(a)
	}
	return new(big.Int).Set(b)
}

func minInt(a *big.Int, b *big.Int) *big.Int {
	if a.Cmp(b) < 0 {
		return new(big.Int).Set(a)
	}
	return new(big.Int).Set(b)
}
