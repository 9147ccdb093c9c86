package shipcaptaincrew

import (
	"errors"
	"fmt"
	"time"

	"shipcaptaincrew-server/pkg/playable/shipcaptaincrew/cargochest"
	"shipcaptaincrew-server/pkg/playable/shipcaptaincrew/potmanager"
	"shipcaptaincrew-server/pkg/playable/shipcaptaincrew/roles"
)

// AnteMode determines who pays the ante
type AnteMode string

// AnteMode constants
const (
	// AnteModePerPlayer charges every seat dealt in
	AnteModePerPlayer AnteMode = "per_player"
	// AnteModeDealer charges the dealer the ante for every seat dealt in
	AnteModeDealer AnteMode = "dealer"
)

// BustFeeBasis is how the bust fee is computed
type BustFeeBasis string

// BustFeeBasis constants
const (
	BustFeeNone        BustFeeBasis = "none"
	BustFeeFixed       BustFeeBasis = "fixed"
	BustFeeAntePercent BustFeeBasis = "ante_percent"
)

// BustFeeDestination is where bust fees go
type BustFeeDestination string

// BustFeeDestination constants
const (
	BustFeeToChest BustFeeDestination = "chest"
	BustFeeToRake  BustFeeDestination = "rake"
)

// BustFee is charged to seats that finish a hand without a role
type BustFee struct {
	Basis BustFeeBasis `yaml:"basis" json:"basis"`
	// Amount is chips for a fixed fee, or a percentage of the ante
	Amount      int                `yaml:"amount" json:"amount"`
	Destination BustFeeDestination `yaml:"destination" json:"destination"`
}

// For returns the fee for a hand with the given ante
func (b BustFee) For(ante int) int {
	switch b.Basis {
	case BustFeeFixed:
		return b.Amount
	case BustFeeAntePercent:
		return ante * b.Amount / 100
	}

	return 0
}

// Options are the tunables for a table
type Options struct {
	Seats    int      `yaml:"seats" json:"seats"`
	MinBuyIn int      `yaml:"minBuyIn" json:"minBuyIn"`
	AnteMode AnteMode `yaml:"anteMode" json:"anteMode"`
	Ante     int      `yaml:"ante" json:"ante"`

	// StreetLimits is the largest bet or raise in each of the three betting rounds, zero for no limit
	StreetLimits []int                  `yaml:"streetLimits" json:"streetLimits"`
	Increment    int                    `yaml:"increment" json:"increment"`
	MaxRaises    int                    `yaml:"maxRaises" json:"maxRaises"`
	Multipliers  potmanager.Multipliers `yaml:"edgeMultipliers" json:"edgeMultipliers"`

	Payouts               roles.Percents `yaml:"payouts" json:"payouts"`
	RoleMinimums          roles.Minimums `yaml:"roleMinimums" json:"roleMinimums"`
	VacancyToChestPercent int            `yaml:"vacancyToChestPercent" json:"vacancyToChestPercent"`
	RakePercent           float64        `yaml:"rakePercent" json:"rakePercent"`
	RakeCap               int            `yaml:"rakeCap" json:"rakeCap"`

	DripPercent    float64                   `yaml:"dripPercent" json:"dripPercent"`
	ChestPayouts   cargochest.PayoutPercents `yaml:"chestPayouts" json:"chestPayouts"`
	ChestTieBreak  cargochest.TieBreak       `yaml:"chestTieBreak" json:"chestTieBreak"`
	StampWindow    int                       `yaml:"stampWindow" json:"stampWindow"`
	StampThreshold int                       `yaml:"stampThreshold" json:"stampThreshold"`

	BustFee BustFee `yaml:"bustFee" json:"bustFee"`

	// MaxNewLocks is how many dice a seat may lock in a single lock phase
	MaxNewLocks int `yaml:"maxNewLocks" json:"maxNewLocks"`

	LockWindow    time.Duration `yaml:"lockWindow" json:"lockWindow"`
	TurnTimeout   time.Duration `yaml:"turnTimeout" json:"turnTimeout"`
	ShowdownPause time.Duration `yaml:"showdownPause" json:"showdownPause"`
	PayoutPause   time.Duration `yaml:"payoutPause" json:"payoutPause"`
	HandEndPause  time.Duration `yaml:"handEndPause" json:"handEndPause"`

	DisconnectGrace time.Duration `yaml:"disconnectGrace" json:"disconnectGrace"`
	DisconnectFold  time.Duration `yaml:"disconnectFold" json:"disconnectFold"`
	DisconnectEvict time.Duration `yaml:"disconnectEvict" json:"disconnectEvict"`
}

// DefaultOptions returns the default options for a table
func DefaultOptions() Options {
	return Options{
		Seats:                 6,
		MinBuyIn:              1000,
		AnteMode:              AnteModePerPlayer,
		Ante:                  25,
		StreetLimits:          []int{100, 200, 400},
		Increment:             5,
		MaxRaises:             3,
		Multipliers:           potmanager.DefaultMultipliers,
		Payouts:               roles.Percents{Ship: 40, Captain: 30, Crew: 20},
		RoleMinimums:          roles.Minimums{Ship: 1, Captain: 1, Crew: 1},
		VacancyToChestPercent: 25,
		RakePercent:           5,
		RakeCap:               300,
		DripPercent:           2,
		ChestPayouts:          cargochest.PayoutPercents{Three: 10, Four: 25, Five: 100},
		ChestTieBreak:         cargochest.TieBreakRankThenTime,
		StampWindow:           10,
		StampThreshold:        3,
		BustFee: BustFee{
			Basis:       BustFeeAntePercent,
			Amount:      50,
			Destination: BustFeeToChest,
		},
		MaxNewLocks:     5,
		LockWindow:      20 * time.Second,
		TurnTimeout:     30 * time.Second,
		ShowdownPause:   4 * time.Second,
		PayoutPause:     4 * time.Second,
		HandEndPause:    3 * time.Second,
		DisconnectGrace: 15 * time.Second,
		DisconnectFold:  60 * time.Second,
		DisconnectEvict: 5 * time.Minute,
	}
}

// ErrOptionsInvalid wraps every options validation failure
var ErrOptionsInvalid = errors.New("invalid options")

func invalid(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrOptionsInvalid, fmt.Sprintf(format, a...))
}

// Validate returns an error if the options cannot be used
func (o Options) Validate() error {
	if o.Seats < 2 || o.Seats > 10 {
		return invalid("seats must be between 2 and 10")
	}

	if o.Ante < 1 {
		return invalid("ante must be at least 1")
	}

	if o.AnteMode != AnteModePerPlayer && o.AnteMode != AnteModeDealer {
		return invalid("unknown ante mode %q", o.AnteMode)
	}

	if o.MinBuyIn < o.Ante {
		return invalid("minimum buy-in must cover the ante")
	}

	if len(o.StreetLimits) != 3 {
		return invalid("expected 3 street limits, got %d", len(o.StreetLimits))
	}

	for _, limit := range o.StreetLimits {
		if limit < 0 {
			return invalid("street limits cannot be negative")
		}
	}

	if o.Increment < 1 {
		return invalid("increment must be at least 1")
	}

	if o.MaxRaises < 0 {
		return invalid("max raises cannot be negative")
	}

	for _, m := range []float64{o.Multipliers.Behind, o.Multipliers.Co, o.Multipliers.Leader, o.Multipliers.Dominant} {
		if m <= 0 || m > 1 {
			return invalid("edge multipliers must be greater than 0 and at most 1")
		}
	}

	if o.Payouts.Ship < 0 || o.Payouts.Captain < 0 || o.Payouts.Crew < 0 || o.Payouts.Total() > 100 {
		return invalid("role payouts must be positive and total at most 100")
	}

	if o.RoleMinimums.Ship < 1 || o.RoleMinimums.Captain < 1 || o.RoleMinimums.Crew < 1 {
		return invalid("role minimums must be at least 1")
	}

	if o.VacancyToChestPercent < 0 || o.VacancyToChestPercent > 100 {
		return invalid("vacancy to chest percent must be between 0 and 100")
	}

	if o.RakePercent < 0 || o.RakePercent > 100 || o.RakeCap < 0 {
		return invalid("rake must be between 0 and 100 percent with a non-negative cap")
	}

	if o.DripPercent < 0 || o.DripPercent > 100 {
		return invalid("drip percent must be between 0 and 100")
	}

	for _, pct := range []int{o.ChestPayouts.Three, o.ChestPayouts.Four, o.ChestPayouts.Five} {
		if pct < 0 || pct > 100 {
			return invalid("chest payouts must be between 0 and 100")
		}
	}

	if !o.ChestTieBreak.IsValid() {
		return invalid("unknown chest tie-break %q", o.ChestTieBreak)
	}

	if o.StampWindow < 1 || o.StampThreshold < 0 || o.StampThreshold > o.StampWindow {
		return invalid("stamp threshold must fit within the stamp window")
	}

	switch o.BustFee.Basis {
	case BustFeeNone, BustFeeFixed, BustFeeAntePercent:
	default:
		return invalid("unknown bust fee basis %q", o.BustFee.Basis)
	}

	if o.BustFee.Amount < 0 {
		return invalid("bust fee cannot be negative")
	}

	if o.BustFee.Basis != BustFeeNone && o.BustFee.Destination != BustFeeToChest && o.BustFee.Destination != BustFeeToRake {
		return invalid("unknown bust fee destination %q", o.BustFee.Destination)
	}

	if o.MaxNewLocks < 1 {
		return invalid("max new locks must be at least 1")
	}

	for _, d := range []time.Duration{o.LockWindow, o.TurnTimeout} {
		if d <= 0 {
			return invalid("lock window and turn timeout must be positive")
		}
	}

	for _, d := range []time.Duration{o.ShowdownPause, o.PayoutPause, o.HandEndPause} {
		if d < 0 {
			return invalid("pauses cannot be negative")
		}
	}

	if o.DisconnectGrace < 0 || o.DisconnectFold < o.DisconnectGrace || o.DisconnectEvict < o.DisconnectFold {
		return invalid("disconnect timeouts must be ordered grace <= fold <= evict")
	}

	return nil
}

// streetLimit returns the limit for betting round 1, 2 or 3
func (o Options) streetLimit(round int) int {
	if round < 1 || round > len(o.StreetLimits) {
		return 0
	}

	return o.StreetLimits[round-1]
}

func (o Options) payoutRules() roles.Rules {
	return roles.Rules{
		Percents:              o.Payouts,
		Minimums:              o.RoleMinimums,
		VacancyToChestPercent: o.VacancyToChestPercent,
		RakePercent:           o.RakePercent,
		RakeCap:               o.RakeCap,
	}
}
