package util

import (
	"fmt"

	"shipcaptaincrew-server/internal/rng"
)

var adjectives = []string{
	"Salty", "Briny", "Stormy", "Rusty", "Jolly", "Grizzled", "Swift", "Lucky", "Crooked", "Bold", "Weathered",
	"Red", "Blue", "Green", "Golden", "Silver", "Foggy", "Grinning", "Tall", "Grand", "Drifting", "Sunken",
	"Howling", "Rolling", "Roaring", "Sailing", "Diving", "Wandering", "Barnacled", "Hardy",
}

var sailors = []string{
	"Gull", "Albatross", "Pelican", "Kraken", "Shark", "Walrus", "Otter", "Dolphin", "Marlin", "Barracuda",
	"Octopus", "Squid", "Lobster", "Crab", "Mackerel", "Herring", "Puffin", "Cormorant", "Narwhal", "Orca",
	"Seal", "Turtle", "Eel", "Swordfish", "Manatee", "Tern", "Stingray", "Starfish",
}

// RandomName returns a random name by combining an adjective with a creature of the sea
func RandomName(g rng.Generator) string {
	adjective := adjectives[g.Intn(len(adjectives))]
	sailor := sailors[g.Intn(len(sailors))]

	return fmt.Sprintf("%s %s", adjective, sailor)
}
