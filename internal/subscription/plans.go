// Package subscription содержит справочник тарифных планов сервиса.
// Таблица планов неизменяема во время работы: лимиты и возможности
// каждого тарифа задаются здесь и нигде больше.
package subscription

// Status представляет тариф пользователя.
type Status string

const (
	// StatusFree — бесплатный тариф с ограниченным числом поездок.
	StatusFree Status = "free"
	// StatusPro — платный тариф с расширенными лимитами и экспортом.
	StatusPro Status = "pro"
	// StatusVeteran — тариф без ограничения числа поездок.
	StatusVeteran Status = "veteran"
)

// UnlimitedTrips означает отсутствие лимита на число поездок.
const UnlimitedTrips = -1

// Plan описывает лимиты и отображаемые атрибуты тарифа.
type Plan struct {
	Name         string   `json:"name"`
	TripsLimit   int      `json:"tripsLimit"` // UnlimitedTrips — без лимита
	CanExport    bool     `json:"canExport"`
	PriceMonthly string   `json:"priceMonthly"`
	Features     []string `json:"features"`
}

var plans = map[Status]Plan{
	StatusFree: {
		Name:         "Free",
		TripsLimit:   3,
		CanExport:    false,
		PriceMonthly: "0",
		Features: []string{
			"Up to 3 trips",
			"Basic trip planning",
		},
	},
	StatusPro: {
		Name:         "Pro",
		TripsLimit:   25,
		CanExport:    true,
		PriceMonthly: "4.99",
		Features: []string{
			"Up to 25 trips",
			"Trip export",
			"Priority support",
		},
	},
	StatusVeteran: {
		Name:         "Veteran",
		TripsLimit:   UnlimitedTrips,
		CanExport:    true,
		PriceMonthly: "9.99",
		Features: []string{
			"Unlimited trips",
			"Trip export",
			"Priority support",
			"Early access to new features",
		},
	},
}

// GetPlan возвращает тариф по статусу и признак его существования.
func GetPlan(s Status) (Plan, bool) {
	p, ok := plans[s]
	return p, ok
}

// IsValid сообщает, является ли строка известным тарифом.
func IsValid(s string) bool {
	_, ok := plans[Status(s)]
	return ok
}

// AllowsMoreTrips сообщает, разрешает ли тариф создать ещё одну поездку
// при текущем количестве count.
func (p Plan) AllowsMoreTrips(count int) bool {
	if p.TripsLimit == UnlimitedTrips {
		return true
	}
	return count < p.TripsLimit
}
