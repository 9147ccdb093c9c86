package cargochest

// Stamps records, per player, whether they were dealt into each of the table's recent hands
type Stamps struct {
	window  int
	history map[int64][]bool
}

// NewStamps returns an empty stamp book with a rolling window of the given length
func NewStamps(window int) *Stamps {
	if window < 1 {
		window = 1
	}

	return &Stamps{
		window:  window,
		history: make(map[int64][]bool),
	}
}

// Window returns the number of hands that are remembered
func (s *Stamps) Window() int {
	return s.window
}

// Resize changes the window, dropping the oldest entries if needed
func (s *Stamps) Resize(window int) {
	if window < 1 {
		window = 1
	}

	s.window = window
	for id, flags := range s.history {
		s.history[id] = s.trim(flags)
	}
}

// Load restores a player's history, oldest first
func (s *Stamps) Load(playerID int64, flags []bool) {
	s.history[playerID] = s.trim(append([]bool{}, flags...))
}

// Record appends the player's participation for a hand
func (s *Stamps) Record(playerID int64, participated bool) {
	s.history[playerID] = s.trim(append(s.history[playerID], participated))
}

// History returns a copy of the player's window, oldest first
func (s *Stamps) History(playerID int64) []bool {
	return append([]bool{}, s.history[playerID]...)
}

// Count returns the number of stamps the player holds in the window
func (s *Stamps) Count(playerID int64) int {
	n := 0
	for _, stamped := range s.history[playerID] {
		if stamped {
			n++
		}
	}

	return n
}

// Eligible returns the players who hold at least threshold stamps
// If none of the players have reached the threshold yet, the requirement is waived for everyone.
func (s *Stamps) Eligible(playerIDs []int64, threshold int) map[int64]bool {
	eligible := make(map[int64]bool, len(playerIDs))
	for _, id := range playerIDs {
		if s.Count(id) >= threshold {
			eligible[id] = true
		}
	}

	if len(eligible) == 0 {
		for _, id := range playerIDs {
			eligible[id] = true
		}
	}

	return eligible
}

func (s *Stamps) trim(flags []bool) []bool {
	if len(flags) <= s.window {
		return flags
	}

	return append([]bool{}, flags[len(flags)-s.window:]...)
}
