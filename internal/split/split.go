// Package split implements the fairness split engine: pure functions mapping
// a monetary amount and a household's active membership to per-member
// obligations under the household's fairness mode.
package split

import (
	"fmt"
	"math"

	"hearthshare-backend/internal/domain"
)

// Tolerance for percentage-sum validation.
const percentTolerance = 0.01

// CalculateSplit computes per-member obligations for amountCents under the
// given fairness mode. Members in excludeIDs (member ids) and inactive
// members are skipped. An empty member set after exclusion yields an empty
// result; callers must treat that as "cannot split".
//
// Custom mode requires every included member to carry an equity percentage;
// if any is missing the calculation silently falls back to an equal split.
func CalculateSplit(amountCents int64, mode domain.FairnessMode, members []domain.Member, excludeIDs []int32) []domain.BillSplit {
	included := filterMembers(members, excludeIDs)
	if len(included) == 0 {
		return []domain.BillSplit{}
	}

	switch mode {
	case domain.FairnessModeCustom:
		if allHaveEquity(included) {
			return customSplit(amountCents, included)
		}
		return equalSplit(amountCents, included)
	case domain.FairnessModeWeighted:
		return weightedSplit(amountCents, included)
	default:
		return equalSplit(amountCents, included)
	}
}

func filterMembers(members []domain.Member, excludeIDs []int32) []domain.Member {
	excluded := make(map[int32]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}
	var included []domain.Member
	for _, m := range members {
		if m.Active && !excluded[m.ID] {
			included = append(included, m)
		}
	}
	return included
}

func allHaveEquity(members []domain.Member) bool {
	for _, m := range members {
		if m.EquityPercentage == nil {
			return false
		}
	}
	return true
}

func equalSplit(amountCents int64, members []domain.Member) []domain.BillSplit {
	count := len(members)
	percentage := 100.0 / float64(count)
	weights := make([]float64, count)
	for i := range weights {
		weights[i] = 1.0 / float64(count)
	}
	return buildSplits(amountCents, members, weights, func(int) float64 { return percentage })
}

func customSplit(amountCents int64, members []domain.Member) []domain.BillSplit {
	var sum float64
	for _, m := range members {
		sum += *m.EquityPercentage
	}
	if sum <= 0 {
		return equalSplit(amountCents, members)
	}

	// Normalize so the final percentages always sum to 100 even when the
	// raw shares do not.
	factor := 100.0 / sum
	weights := make([]float64, len(members))
	finalPcts := make([]float64, len(members))
	for i, m := range members {
		finalPcts[i] = *m.EquityPercentage * factor
		weights[i] = finalPcts[i] / 100.0
	}
	return buildSplits(amountCents, members, weights, func(i int) float64 { return finalPcts[i] })
}

func weightedSplit(amountCents int64, members []domain.Member) []domain.BillSplit {
	// Karma is the weight proxy, floored at 1 so a zero-karma member never
	// collapses the division.
	weights := make([]float64, len(members))
	var total float64
	for i, m := range members {
		w := float64(m.KarmaScore)
		if w < 1 {
			w = 1
		}
		weights[i] = w
		total += w
	}
	for i := range weights {
		weights[i] /= total
	}
	return buildSplits(amountCents, members, weights, func(i int) float64 { return weights[i] * 100.0 })
}

// buildSplits allocates cents by weight, rounding each share and handing the
// remainder to the last member so the amounts always sum exactly to the
// input.
func buildSplits(amountCents int64, members []domain.Member, weights []float64, pct func(i int) float64) []domain.BillSplit {
	splits := make([]domain.BillSplit, len(members))
	var allocated int64
	for i, m := range members {
		cents := int64(math.Round(float64(amountCents) * weights[i]))
		if i == len(members)-1 {
			cents = amountCents - allocated
		}
		allocated += cents
		splits[i] = domain.BillSplit{
			MemberID:    m.ID,
			UserID:      m.UserID,
			AmountCents: cents,
			Percentage:  pct(i),
		}
	}
	return splits
}

// ValidationResult reports whether a set of custom percentages is usable.
type ValidationResult struct {
	Valid   bool
	Message string
}

// ValidateCustomPercentages accepts a percentage set whose sum is within
// 0.01 of 100. The failure message states the direction and integer-rounded
// size of the gap.
func ValidateCustomPercentages(percentages []float64) ValidationResult {
	var sum float64
	for _, p := range percentages {
		sum += p
	}
	diff := sum - 100.0
	if math.Abs(diff) < percentTolerance {
		return ValidationResult{Valid: true}
	}
	if diff < 0 {
		return ValidationResult{
			Valid:   false,
			Message: fmt.Sprintf("percentages sum to %d%%, which is %d%% under 100%%", int(math.Round(sum)), int(math.Round(-diff))),
		}
	}
	return ValidationResult{
		Valid:   false,
		Message: fmt.Sprintf("percentages sum to %d%%, which is %d%% over 100%%", int(math.Round(sum)), int(math.Round(diff))),
	}
}

// CheckBalance classifies how evenly the household's shares are spread:
// max absolute deviation from the mean percentage, <5 balanced, <15 slightly
// unbalanced, otherwise unbalanced. Members without an equity percentage
// count as an equal share.
func CheckBalance(members []domain.Member) domain.BalanceStatus {
	var active []domain.Member
	for _, m := range members {
		if m.Active {
			active = append(active, m)
		}
	}
	if len(active) == 0 {
		return domain.BalanceStatusUnknown
	}

	equalShare := 100.0 / float64(len(active))
	pcts := make([]float64, len(active))
	var sum float64
	for i, m := range active {
		if m.EquityPercentage != nil {
			pcts[i] = *m.EquityPercentage
		} else {
			pcts[i] = equalShare
		}
		sum += pcts[i]
	}
	mean := sum / float64(len(active))

	var maxDev float64
	for _, p := range pcts {
		if dev := math.Abs(p - mean); dev > maxDev {
			maxDev = dev
		}
	}

	switch {
	case maxDev < 5.0:
		return domain.BalanceStatusBalanced
	case maxDev < 15.0:
		return domain.BalanceStatusSlightlyUnbalanced
	default:
		return domain.BalanceStatusUnbalanced
	}
}
