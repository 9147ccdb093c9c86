package roles

import "sort"

// Percents are the share of a pot (after rake) each role wins
type Percents struct {
	Ship    int `yaml:"ship" json:"ship"`
	Captain int `yaml:"captain" json:"captain"`
	Crew    int `yaml:"crew" json:"crew"`
}

// For returns the percentage for the role
func (p Percents) For(r Role) int {
	switch r {
	case RoleShip:
		return p.Ship
	case RoleCaptain:
		return p.Captain
	case RoleCrew:
		return p.Crew
	}

	return 0
}

// Total returns the combined percentage
func (p Percents) Total() int {
	return p.Ship + p.Captain + p.Crew
}

// Rules configures how pots are paid out
type Rules struct {
	Percents Percents
	Minimums Minimums
	// VacancyToChestPercent is the part of a vacant role's share in the main pot sent to the chest
	VacancyToChestPercent int
	RakePercent           float64
	// RakeCap is the most rake taken from a hand; zero means uncapped
	RakeCap int
}

// Pot is a pot to be resolved. The main pot comes first.
type Pot struct {
	Amount   int
	Eligible []int64
}

// PotResult is the resolution of a single pot
type PotResult struct {
	Amount     int           `json:"amount"`
	Rake       int           `json:"rake"`
	Assignment Assignment    `json:"assignment"`
	Awards     map[int64]int `json:"awards"`
	Vacant     []Role        `json:"vacant,omitempty"`
	ToChest    int           `json:"toChest"`
	Carryover  int           `json:"carryover"`
	Returned   bool          `json:"returned,omitempty"`
	Eligible   []int64       `json:"eligible"`
	Shares     map[Role]int  `json:"shares"`
}

// Result is the resolution of every pot in a hand
type Result struct {
	Pots      []*PotResult  `json:"pots"`
	Winnings  map[int64]int `json:"winnings"`
	Rake      int           `json:"rake"`
	ToChest   int           `json:"toChest"`
	Carryover int           `json:"carryover"`
}

// RoleHolders returns every player who won a role in any pot
func (r *Result) RoleHolders() map[int64]bool {
	holders := make(map[int64]bool)
	for _, pot := range r.Pots {
		for _, id := range pot.Assignment.Holders {
			holders[id] = true
		}
	}

	return holders
}

// Main returns the main pot's resolution
func (r *Result) Main() *PotResult {
	if len(r.Pots) == 0 {
		return nil
	}

	return r.Pots[0]
}

// Resolve assigns roles within each pot and splits it
// Every chip of every pot ends up in Winnings, Rake, ToChest, or Carryover.
func Resolve(pots []Pot, contenders []Contender, rules Rules) *Result {
	result := &Result{
		Pots:     make([]*PotResult, 0, len(pots)),
		Winnings: make(map[int64]int),
	}

	rakeLeft := rules.RakeCap
	for i, pot := range pots {
		pr := &PotResult{
			Amount:   pot.Amount,
			Awards:   make(map[int64]int),
			Eligible: pot.Eligible,
			Shares:   make(map[Role]int),
			Assignment: Assignment{
				Holders: make(map[Role]int64),
			},
		}
		result.Pots = append(result.Pots, pr)

		if pot.Amount <= 0 {
			continue
		}

		// a pot nobody else can contest goes straight back
		if len(pot.Eligible) == 1 {
			pr.Returned = true
			pr.Awards[pot.Eligible[0]] = pot.Amount
			continue
		}

		if len(pot.Eligible) == 0 {
			pr.Carryover = pot.Amount
			continue
		}

		pr.Rake = rakeFor(pot.Amount, rules.RakePercent, rules.RakeCap, rakeLeft)
		rakeLeft -= pr.Rake

		distributable := pot.Amount - pr.Rake
		pr.Assignment = Assign(restrict(contenders, pot.Eligible), rules.Minimums)

		allocated := 0
		for _, role := range All {
			share := distributable * rules.Percents.For(role) / 100
			pr.Shares[role] = share
			allocated += share
		}

		// rounding and any unallocated percentage roll into the next hand
		pr.Carryover += distributable - allocated

		for _, role := range All {
			share := pr.Shares[role]
			if id, ok := pr.Assignment.Holder(role); ok {
				pr.Awards[id] += share
				continue
			}

			pr.Vacant = append(pr.Vacant, role)
			if share == 0 {
				continue
			}

			// side pots never feed the chest or promote; a vacant share waits for the next hand
			if i > 0 {
				pr.Carryover += share
				continue
			}

			toChest := share * rules.VacancyToChestPercent / 100
			pr.ToChest += toChest
			pr.Carryover += promote(pr, role, share-toChest)
		}
	}

	for _, pr := range result.Pots {
		for id, amount := range pr.Awards {
			result.Winnings[id] += amount
		}

		result.Rake += pr.Rake
		result.ToChest += pr.ToChest
		result.Carryover += pr.Carryover
	}

	return result
}

// promote gives a vacant role's remaining share to the nearest filled role above it, or failing that,
// splits it among the filled roles below it. Anything that cannot be placed is returned.
func promote(pr *PotResult, vacant Role, amount int) int {
	if amount <= 0 {
		return 0
	}

	for r := vacant - 1; r >= RoleShip; r-- {
		if id, ok := pr.Assignment.Holder(r); ok {
			pr.Awards[id] += amount
			return 0
		}
	}

	below := make([]int64, 0, 2)
	for r := vacant + 1; r <= RoleCrew; r++ {
		if id, ok := pr.Assignment.Holder(r); ok {
			below = append(below, id)
		}
	}

	if len(below) == 0 {
		return amount
	}

	each := amount / len(below)
	odd := amount % len(below)
	for i, id := range below {
		pr.Awards[id] += each
		if i < odd {
			pr.Awards[id]++
		}
	}

	return 0
}

func rakeFor(amount int, percent float64, rakeCap, rakeLeft int) int {
	if percent <= 0 {
		return 0
	}

	rake := int(float64(amount) * percent / 100)
	if rakeCap > 0 && rake > rakeLeft {
		rake = rakeLeft
	}

	if rake < 0 {
		return 0
	}

	return rake
}

func restrict(contenders []Contender, eligible []int64) []Contender {
	allowed := make(map[int64]bool, len(eligible))
	for _, id := range eligible {
		allowed[id] = true
	}

	out := make([]Contender, 0, len(eligible))
	for _, c := range contenders {
		if allowed[c.PlayerID] {
			out = append(out, c)
		}
	}

	return out
}

// Stack is a seat's chips after winnings have been paid
type Stack struct {
	PlayerID int64
	Amount   int
}

// Charge is a bust fee levied on a seat that won no role
type Charge struct {
	PlayerID  int64 `json:"playerId"`
	Fee       int   `json:"fee"`
	Charged   int   `json:"charged"`
	Shortfall int   `json:"shortfall"`
}

// ChargeBustFees levies fee on every seat without a role
// A seat that cannot cover the fee is charged what it has; the shortfall is recorded, never owed.
func ChargeBustFees(stacks []Stack, holders map[int64]bool, fee int) []Charge {
	if fee <= 0 {
		return nil
	}

	charges := make([]Charge, 0, len(stacks))
	for _, s := range stacks {
		if holders[s.PlayerID] {
			continue
		}

		charged := fee
		if s.Amount < charged {
			charged = s.Amount
		}

		if charged < 0 {
			charged = 0
		}

		charges = append(charges, Charge{
			PlayerID:  s.PlayerID,
			Fee:       fee,
			Charged:   charged,
			Shortfall: fee - charged,
		})
	}

	sort.SliceStable(charges, func(i, j int) bool {
		return charges[i].PlayerID < charges[j].PlayerID
	})

	return charges
}
