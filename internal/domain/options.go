package domain

// GenerateOptions draws the next option set. The rank pool follows rules.OptionPool;
// afterwards one slot may be replaced by the heart sentinel with 1-in-HeartOdds chance.
func GenerateOptions(rules Ruleset, handEmpty bool, rng RNG) []Card {
	ranks := StandardRanks
	if rules.OptionPool == PoolFacesOnEmptyHand && !handEmpty {
		ranks = NumericRanks
	}

	options := make([]Card, rules.OptionsSize)
	for i := range options {
		options[i] = Card{
			Suit: StandardSuits[rng.Intn(len(StandardSuits))],
			Rank: ranks[rng.Intn(len(ranks))],
		}
	}

	if rng.Intn(rules.HeartOdds) == 0 {
		options[rng.Intn(len(options))] = HeartCard()
	}
	return options
}
