package bestiary

import (
	"github.com/Kobrals/feeriequest-3d/internal/domain"
	"github.com/Kobrals/feeriequest-3d/pkg/utils"
)

// Template describes a monster family. Level scaling is applied by the
// spawn system, the template only carries what does not change with level.
type Template struct {
	Name        string
	Kind        domain.MonsterKind
	Description string
}

// --- MONSTERS ---

var Sprite = Template{
	Name:        "Feu Follet",
	Kind:        domain.MonsterNormal,
	Description: "A will-o'-the-wisp drifting between the trees.",
}

var Boar = Template{
	Name:        "Sanglier Sauvage",
	Kind:        domain.MonsterNormal,
	Description: "A tusked boar that charges anything nearby.",
}

var Korrigan = Template{
	Name:        "Korrigan",
	Kind:        domain.MonsterNormal,
	Description: "A small stone-dwelling trickster.",
}

var Ogre = Template{
	Name:        "Ogre des Brumes",
	Kind:        domain.MonsterBoss,
	Description: "The mist ogre guarding the old circle.",
}

// Normal families, indexed by (level-1) modulo length.
var Normals = []Template{Sprite, Boar, Korrigan}

// Bosses, indexed by spawn order modulo length.
var Bosses = []Template{Ogre}

// ForLevel returns the normal template used for a given level.
func ForLevel(level int) Template {
	if level < 1 {
		level = 1
	}
	return Normals[(level-1)%len(Normals)]
}

// Boss returns the n-th boss template.
func Boss(n int) Template {
	if n < 0 {
		n = 0
	}
	return Bosses[n%len(Bosses)]
}

// --- LOOT ---

// CommonLoot always drops at tier 1.
var CommonLoot = []string{
	"Herbe Lunaire",
	"Croc de Sanglier",
	"Poussiere de Fee",
	"Pierre Polie",
}

// RareLoot drops at the monster's elevated tier.
var RareLoot = []string{
	"Anneau d'Ambre",
	"Lame de Rosee",
	"Cristal de Brume",
}

// Pick draws one name from table. An empty table yields "".
func Pick(src utils.Source, table []string) string {
	if len(table) == 0 {
		return ""
	}
	i := int(src.Float64() * float64(len(table)))
	if i >= len(table) {
		i = len(table) - 1
	}
	return table[i]
}
