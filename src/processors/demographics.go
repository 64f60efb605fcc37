package processors

import (
	"sort"

	"github.com/username/vendalytics/backend/src/models"
	"github.com/username/vendalytics/backend/src/utils"
)

// DemographicsAggregator computes customer distributions over DISTINCT
// customers: a customer appearing in many sales counts once per grouping.
type DemographicsAggregator struct{}

func NewDemographicsAggregator() *DemographicsAggregator {
	return &DemographicsAggregator{}
}

// AgeBracket classifies an age into its demographic bucket. A nil age lands in
// "Não informado".
func AgeBracket(age *int) string {
	switch {
	case age == nil:
		return "Não informado"
	case *age < 18:
		return "Menor de 18"
	case *age <= 25:
		return "18-25"
	case *age <= 35:
		return "26-35"
	case *age <= 45:
		return "36-45"
	case *age <= 55:
		return "46-55"
	case *age <= 65:
		return "56-65"
	default:
		return "Acima de 65"
	}
}

// distinctSet tracks distinct customer ids per bucket key, preserving the
// order in which keys first appear.
type distinctSet struct {
	order   []string
	members map[string]map[string]struct{}
}

func newDistinctSet() *distinctSet {
	return &distinctSet{members: make(map[string]map[string]struct{})}
}

func (s *distinctSet) add(key, customerID string) {
	set, ok := s.members[key]
	if !ok {
		set = make(map[string]struct{})
		s.members[key] = set
		s.order = append(s.order, key)
	}
	set[customerID] = struct{}{}
}

func (s *distinctSet) count(key string) int64 {
	return int64(len(s.members[key]))
}

// Distribution computes the gender, age-bracket and city distributions.
// Percentages are shares of all distinct customers, rounded to two decimals.
// Gender and age bracket keep first-seen order; city is sorted descending by
// count. Empty input yields empty distributions, not an error.
func (a *DemographicsAggregator) Distribution(sales []models.Sale) models.CustomerDistribution {
	byGender := newDistinctSet()
	byBracket := newDistinctSet()
	byCity := newDistinctSet()
	allCustomers := make(map[string]struct{})

	for _, sale := range sales {
		customer := sale.Customer
		if customer == nil {
			continue
		}
		allCustomers[customer.ID] = struct{}{}
		byGender.add(customer.Gender, customer.ID)
		byBracket.add(AgeBracket(customer.Age), customer.ID)
		byCity.add(customer.City, customer.ID)
	}
	total := int64(len(allCustomers))

	cityKeys := make([]string, len(byCity.order))
	copy(cityKeys, byCity.order)
	sort.SliceStable(cityKeys, func(i, j int) bool {
		return byCity.count(cityKeys[i]) > byCity.count(cityKeys[j])
	})

	return models.CustomerDistribution{
		ByGender:     buildDistribution(byGender.order, byGender, total),
		ByAgeBracket: buildDistribution(byBracket.order, byBracket, total),
		ByCity:       buildDistribution(cityKeys, byCity, total),
	}
}

func buildDistribution(keys []string, set *distinctSet, total int64) *models.DistributionMap {
	dist := models.NewDistributionMap()
	for _, key := range keys {
		count := set.count(key)
		dist.Set(key, models.DistributionItem{
			Count:   count,
			Percent: percentOf(count, total),
		})
	}
	return dist
}

func percentOf(count, total int64) float64 {
	if total == 0 {
		return 0.0
	}
	return utils.Round2(float64(count) * 100.0 / float64(total))
}
