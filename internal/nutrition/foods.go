// Package nutrition estimates the nutrients of a free-text meal description
// from a static per-serving food table.
package nutrition

import (
	"strings"

	"github.com/vladimiradmaev/care-planner/internal/domain"
)

// food builds a table row; values are per serving
func food(name string, calories, carbs, sugar, fiber, protein, gi float64) domain.FoodPropertyRecord {
	return domain.FoodPropertyRecord{
		Name:          name,
		Calories:      calories,
		Carbohydrates: carbs,
		Sugar:         sugar,
		Fiber:         fiber,
		Protein:       protein,
		GlycemicIndex: gi,
	}
}

// foodTable is ordered; multi-word matches are reported in this order
var foodTable = []domain.FoodPropertyRecord{
	// grains
	food("rice", 130, 28, 0, 0.4, 2.7, 73),
	food("white rice", 130, 28, 0, 0.4, 2.7, 73),
	food("brown rice", 112, 24, 0, 1.8, 2.6, 50),
	food("bread", 79, 15, 1.5, 0.6, 2.7, 75),
	food("whole wheat bread", 81, 14, 1.4, 2, 4, 51),
	food("roti", 71, 15, 0.3, 1.9, 2.7, 62),
	food("chapati", 71, 15, 0.3, 1.9, 2.7, 62),
	food("oats", 68, 12, 0.5, 1.7, 2.4, 55),
	food("pasta", 131, 25, 0.6, 1.8, 5, 50),

	// proteins
	food("chicken", 165, 0, 0, 0, 31, 0),
	food("fish", 206, 0, 0, 0, 22, 0),
	food("egg", 155, 1.1, 1.1, 0, 13, 0),
	food("eggs", 155, 1.1, 1.1, 0, 13, 0),
	food("dal", 116, 20, 1, 8, 9, 30),
	food("lentils", 116, 20, 1, 8, 9, 30),
	food("paneer", 265, 1.2, 0.5, 0, 18, 0),
	food("tofu", 76, 1.9, 0.6, 0.3, 8, 15),

	// vegetables
	food("salad", 20, 3.6, 1.3, 1.8, 1.3, 15),
	food("vegetables", 25, 5, 2.4, 2, 1.3, 15),
	food("spinach", 23, 3.6, 0.4, 2.2, 2.9, 15),
	food("broccoli", 34, 7, 1.7, 2.6, 2.8, 10),
	food("potato", 77, 17, 0.8, 2.2, 2, 78),
	food("sweet potato", 86, 20, 4.2, 3, 1.6, 63),

	// fruits
	food("apple", 52, 14, 10, 2.4, 0.3, 36),
	food("banana", 89, 23, 12, 2.6, 1.1, 51),
	food("orange", 47, 12, 9, 2.4, 0.9, 43),
	food("mango", 60, 15, 14, 1.6, 0.8, 56),
	food("grapes", 69, 18, 16, 0.9, 0.7, 59),
	food("watermelon", 30, 8, 6, 0.4, 0.6, 76),

	// dairy
	food("milk", 42, 5, 5, 0, 3.4, 39),
	food("yogurt", 59, 3.6, 3.2, 0, 10, 35),
	food("curd", 98, 3.4, 3.4, 0, 11, 35),
	food("cheese", 402, 1.3, 0.5, 0, 25, 0),

	// meals
	food("idli", 39, 8, 0.2, 0.4, 1.3, 77),
	food("dosa", 133, 18, 1.5, 1, 4, 77),
	food("upma", 161, 26, 1, 2, 4, 65),
	food("poha", 180, 32, 2, 1, 3.5, 64),
	food("biryani", 290, 35, 2, 1, 15, 70),
	food("pizza", 266, 33, 3.6, 2.3, 11, 80),
	food("burger", 295, 24, 5, 1.3, 17, 66),
	food("sandwich", 252, 29, 4, 2, 10, 55),

	// beverages
	food("tea", 2, 0.5, 0, 0, 0, 0),
	food("coffee", 2, 0, 0, 0, 0.3, 0),
	food("juice", 45, 11, 10, 0.2, 0.4, 50),
	food("soda", 41, 10.6, 10.6, 0, 0, 63),
	food("lassi", 72, 8, 7, 0, 3, 35),

	// snacks
	food("biscuits", 502, 63, 20, 2, 6, 70),
	food("chips", 536, 53, 0.3, 4.4, 7, 54),
	food("samosa", 262, 24, 2, 2, 4, 60),
	food("pakora", 200, 18, 1, 2, 5, 55),
	food("nuts", 607, 21, 4, 7, 20, 15),
	food("almonds", 579, 22, 4, 12.5, 21, 0),
}

// aliases map alternate spellings onto a table key
var aliases = map[string]string{
	"idly":     "idli",
	"idlis":    "idli",
	"idlies":   "idli",
	"chappati": "chapati",
	"dhal":     "dal",
	"daal":     "dal",
	"rotis":    "roti",
	"dosas":    "dosa",
	"samosas":  "samosa",
	"apples":   "apple",
	"bananas":  "banana",
	"oranges":  "orange",
}

var foodsByName = func() map[string]domain.FoodPropertyRecord {
	m := make(map[string]domain.FoodPropertyRecord, len(foodTable))
	for _, f := range foodTable {
		m[f.Name] = f
	}
	return m
}()

// Lookup finds a single food by name or alias
func Lookup(name string) (domain.FoodPropertyRecord, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := aliases[name]; ok {
		name = canonical
	}
	f, ok := foodsByName[name]
	return f, ok
}

// Foods returns a copy of the food table
func Foods() []domain.FoodPropertyRecord {
	out := make([]domain.FoodPropertyRecord, len(foodTable))
	copy(out, foodTable)
	return out
}

func isMultiWord(name string) bool {
	return strings.Contains(name, " ")
}
