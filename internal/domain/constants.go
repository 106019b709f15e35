package domain

// Participant defaults.
const (
	DefaultLevel     = 1
	DefaultHP        = 100
	DefaultGold      = 0
	GuestStartGold   = 40
	ExpPerLevel      = 100
	MaxHPPerLevel    = 10
	MaxDisplayName   = 32
	GuestNamePrefix  = "Guest-"
	RespawnRadius    = 100.0
	RespawnHPRatio   = 0.6
	DeathGoldPenalty = 0.05
)

// Monster tuning.
const (
	NormalBaseHP    = 60
	NormalHPByLevel = 15
	BossHP          = 300
	SpawnJitter     = 20.0
	WanderStep      = 3.0
	NormalLootTier  = 1
	BossLootTier    = 3
)

// Combat tuning.
const (
	LevelDamageBonus   = 1.2
	DamageJitter       = 3.0
	RetaliationChance  = 0.4
	RetaliationByLevel = 2
	RetaliationJitter  = 8.0
	BaseGoldReward     = 10
	GoldRewardJitter   = 40.0
	GoldByLevel        = 5
	BaseExpReward      = 8
	ExpByLevel         = 12
	RareLootThreshold  = 0.9
	LootThreshold      = 0.6
)
