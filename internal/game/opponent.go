package game

import (
	"log"

	"truco-game/internal/shared"
)

// LeadPolicy selects the card the opponent leads with when it plays first in
// a trick. The engine's sequencing always has the opponent respond to the
// player's card, but the policy does not assume that.
type LeadPolicy func(ranking *shared.Ranking, hand []shared.Card) shared.Card

// WeakestLead leads with the weakest card in hand. It is the default.
func WeakestLead(ranking *shared.Ranking, hand []shared.Card) shared.Card {
	return weakestCard(ranking, hand)
}

// OpponentPolicy picks the opponent's card. It is fully deterministic: given
// the same hand and table card it always picks the same card.
type OpponentPolicy struct {
	ranking *shared.Ranking
	lead    LeadPolicy
}

// NewOpponentPolicy creates a policy using the given ranking and the default
// lead behavior.
func NewOpponentPolicy(ranking *shared.Ranking) *OpponentPolicy {
	return &OpponentPolicy{ranking: ranking, lead: WeakestLead}
}

// ChooseCard returns the card to play given the opponent's remaining hand
// and the card currently on the table, if any. When the table card can be
// beaten, the weakest winning card is chosen, preserving stronger cards for
// later tricks; otherwise the weakest card in hand is shed.
func (p *OpponentPolicy) ChooseCard(hand []shared.Card, table *shared.Card) shared.Card {
	if len(hand) == 0 {
		log.Panicf("Opponent policy invoked with an empty hand.")
	}
	if table == nil {
		return p.lead(p.ranking, hand)
	}

	tableRank := p.ranking.Rank(*table)
	var winner shared.Card
	winnerRank := -1
	for _, c := range hand {
		r := p.ranking.Rank(c)
		if r < tableRank && r > winnerRank {
			winner = c
			winnerRank = r
		}
	}
	if winnerRank >= 0 {
		return winner
	}
	return weakestCard(p.ranking, hand)
}

// weakestCard returns the card with the highest rank index in hand.
func weakestCard(ranking *shared.Ranking, hand []shared.Card) shared.Card {
	weakest := hand[0]
	for _, c := range hand[1:] {
		if ranking.Rank(c) > ranking.Rank(weakest) {
			weakest = c
		}
	}
	return weakest
}
