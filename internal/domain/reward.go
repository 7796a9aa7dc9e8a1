package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RewardRule is how a referral program pays out. It is one of
// PercentageReward or FlatReward.
type RewardRule interface {
	rewardRule()
}

// PercentageReward pays each side a percentage of the booking total.
type PercentageReward struct {
	ReferrerRate decimal.Decimal
	RefereeRate  decimal.Decimal
}

// FlatReward pays each side a fixed amount.
type FlatReward struct {
	ReferrerAmount decimal.Decimal
	RefereeAmount  decimal.Decimal
}

func (PercentageReward) rewardRule() {}
func (FlatReward) rewardRule()       {}

const (
	RewardKindPercentage = "percentage"
	RewardKindFlat       = "flat"
)

// ParseRewardRule builds the rule for a stored reward type. The type is
// matched case-insensitively.
func ParseRewardRule(kind string, referrer, referee decimal.Decimal) (RewardRule, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case RewardKindPercentage:
		return PercentageReward{ReferrerRate: referrer, RefereeRate: referee}, nil
	case RewardKindFlat:
		return FlatReward{ReferrerAmount: referrer, RefereeAmount: referee}, nil
	}
	return nil, Invalid("reward_type", fmt.Sprintf("unknown reward type %q", kind))
}
