package game

import "strings"

// Resource is an inventory counter kind.
type Resource string

const (
	Coins       Resource = "coins"
	BasicBalls  Resource = "balls"
	GreatBalls  Resource = "great_balls"
	UltraBalls  Resource = "ultra_balls"
	MasterBalls Resource = "master_balls"
	Potions     Resource = "potions"
)

// Resources lists every inventory kind in display order.
var Resources = []Resource{Coins, BasicBalls, GreatBalls, UltraBalls, MasterBalls, Potions}

// Label is the human-readable name of the resource.
func (r Resource) Label() string {
	switch r {
	case Coins:
		return "coins"
	case BasicBalls:
		return "Basic Balls"
	case GreatBalls:
		return "Great Balls"
	case UltraBalls:
		return "Ultra Balls"
	case MasterBalls:
		return "Master Balls"
	case Potions:
		return "Potions"
	default:
		return string(r)
	}
}

// Device is a capture device tier.
type Device int

const (
	DeviceBasic Device = iota
	DeviceGreat
	DeviceUltra
	DeviceMaster
)

// Devices lists the tiers from weakest to strongest.
var Devices = []Device{DeviceBasic, DeviceGreat, DeviceUltra, DeviceMaster}

func (d Device) String() string {
	switch d {
	case DeviceGreat:
		return "great"
	case DeviceUltra:
		return "ultra"
	case DeviceMaster:
		return "master"
	default:
		return "basic"
	}
}

// ParseDevice accepts the tier names ("basic"/"poke", "great", "ultra", "master").
func ParseDevice(s string) (Device, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "basic", "poke":
		return DeviceBasic, true
	case "great":
		return DeviceGreat, true
	case "ultra":
		return DeviceUltra, true
	case "master":
		return DeviceMaster, true
	default:
		return DeviceBasic, false
	}
}

// Resource is the inventory counter the device is drawn from.
func (d Device) Resource() Resource {
	switch d {
	case DeviceGreat:
		return GreatBalls
	case DeviceUltra:
		return UltraBalls
	case DeviceMaster:
		return MasterBalls
	default:
		return BasicBalls
	}
}

// Bonus is added to the catch chance before clamping.
func (d Device) Bonus() float64 {
	switch d {
	case DeviceGreat:
		return 0.15
	case DeviceUltra:
		return 0.3
	default:
		return 0
	}
}

// Guaranteed reports whether the device always catches.
func (d Device) Guaranteed() bool {
	return d == DeviceMaster
}

// ShopItem is one purchasable stock.
type ShopItem struct {
	Name     string
	Resource Resource
	Price    int
}

// ShopItems is the shop's catalog. Master Balls are never sold.
var ShopItems = []ShopItem{
	{Name: "Basic Ball", Resource: BasicBalls, Price: 20},
	{Name: "Great Ball", Resource: GreatBalls, Price: 50},
	{Name: "Ultra Ball", Resource: UltraBalls, Price: 100},
	{Name: "Potion", Resource: Potions, Price: 10},
}

// ShopItemFor looks up the shop entry for a resource.
func ShopItemFor(r Resource) (ShopItem, bool) {
	for _, item := range ShopItems {
		if item.Resource == r {
			return item, true
		}
	}
	return ShopItem{}, false
}

// PotionHeal is the HP one potion restores.
const PotionHeal = 30
