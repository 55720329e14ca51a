package eventmodels

// ContractQuote holds every mergeable field of a contract. A nil field is
// unknown. The same type doubles as the patch applied by a tick or a book
// update, where nil means "not present in this message".
type ContractQuote struct {
	Last         *float64            `json:"last"`
	ChangeRate   *float64            `json:"change_rate"`
	TotalVolume  *float64            `json:"total_volume"`
	OpenInterest *float64            `json:"oi"`
	Bid          [BookDepth]*float64 `json:"bid"`
	Ask          [BookDepth]*float64 `json:"ask"`
	BidVolume    [BookDepth]*float64 `json:"bid_volume"`
	AskVolume    [BookDepth]*float64 `json:"ask_volume"`
}

// FieldChange records a single field overwritten by Merge. Old is nil when
// the field was unknown before the merge.
type FieldChange struct {
	Field ContractField
	Old   *float64
	New   float64
}

func (q *ContractQuote) fields() []contractFieldRef {
	refs := []contractFieldRef{
		{FieldLast, &q.Last},
		{FieldChangeRate, &q.ChangeRate},
		{FieldTotalVolume, &q.TotalVolume},
		{FieldOpenInterest, &q.OpenInterest},
	}

	for i := 0; i < BookDepth; i++ {
		refs = append(refs,
			contractFieldRef{BidField(i + 1), &q.Bid[i]},
			contractFieldRef{AskField(i + 1), &q.Ask[i]},
			contractFieldRef{BidVolumeField(i + 1), &q.BidVolume[i]},
			contractFieldRef{AskVolumeField(i + 1), &q.AskVolume[i]},
		)
	}

	return refs
}

// Merge writes every field present in patch over q and returns the fields
// whose value actually changed. Fields absent from the patch are left as
// they are, so a known value is never replaced by an unknown one.
func (q *ContractQuote) Merge(patch ContractQuote) []FieldChange {
	var changes []FieldChange

	dst := q.fields()
	src := patch.fields()
	for i := range dst {
		incoming := *src[i].value
		if incoming == nil {
			continue
		}

		current := *dst[i].value
		if current != nil && *current == *incoming {
			continue
		}

		var old *float64
		if current != nil {
			v := *current
			old = &v
		}

		v := *incoming
		*dst[i].value = &v

		changes = append(changes, FieldChange{
			Field: dst[i].name,
			Old:   old,
			New:   v,
		})
	}

	return changes
}

func (q ContractQuote) Clone() ContractQuote {
	var out ContractQuote
	out.Merge(q)
	return out
}

func (q ContractQuote) IsEmpty() bool {
	for _, ref := range q.fields() {
		if *ref.value != nil {
			return false
		}
	}

	return true
}

// Premium is the last trade price, or the mid of the best bid/ask when no
// trade has been seen. A last price of 0 means no trade. Returns false when
// neither is available.
func (q ContractQuote) Premium() (float64, bool) {
	if q.Last != nil && *q.Last > 0 {
		return *q.Last, true
	}

	bid, ask := q.Bid[0], q.Ask[0]
	switch {
	case bid != nil && ask != nil:
		return (*bid + *ask) / 2, true
	case bid != nil:
		return *bid, true
	case ask != nil:
		return *ask, true
	}

	return 0, false
}
