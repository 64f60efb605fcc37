package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/vendalytics/backend/src/models"
)

func TestAgeBracket(t *testing.T) {
	testCases := []struct {
		name     string
		age      *int
		expected string
	}{
		{"nil age", nil, "Não informado"},
		{"under 18", intPtr(17), "Menor de 18"},
		{"boundary 18", intPtr(18), "18-25"},
		{"boundary 25", intPtr(25), "18-25"},
		{"boundary 26", intPtr(26), "26-35"},
		{"boundary 35", intPtr(35), "26-35"},
		{"boundary 45", intPtr(45), "36-45"},
		{"boundary 55", intPtr(55), "46-55"},
		{"boundary 65", intPtr(65), "56-65"},
		{"over 65", intPtr(66), "Acima de 65"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, AgeBracket(tc.age))
		})
	}
}

func customerSale(id, gender, city string, age *int) models.Sale {
	return models.Sale{
		Customer: &models.Customer{ID: id, Gender: gender, City: city, Age: age},
	}
}

func TestDistributionCountsDistinctCustomers(t *testing.T) {
	a := NewDemographicsAggregator()
	sales := []models.Sale{
		customerSale("c1", "Feminino", "recife", intPtr(30)),
		customerSale("c1", "Feminino", "recife", intPtr(30)), // repeat transaction
		customerSale("c2", "Masculino", "recife", intPtr(40)),
		customerSale("c3", "Feminino", "natal", intPtr(20)),
	}
	dist := a.Distribution(sales)

	fem, ok := dist.ByGender.Get("Feminino")
	require.True(t, ok)
	assert.Equal(t, int64(2), fem.Count)
	assert.InDelta(t, 66.67, fem.Percent, 1e-9)

	masc, _ := dist.ByGender.Get("Masculino")
	assert.Equal(t, int64(1), masc.Count)
	assert.InDelta(t, 33.33, masc.Percent, 1e-9)

	// gender keys keep first-seen order
	assert.Equal(t, []string{"Feminino", "Masculino"}, dist.ByGender.Keys())
}

func TestDistributionCitySortedByCountDescending(t *testing.T) {
	a := NewDemographicsAggregator()
	sales := []models.Sale{
		customerSale("c1", "F", "natal", intPtr(30)),
		customerSale("c2", "F", "recife", intPtr(30)),
		customerSale("c3", "F", "recife", intPtr(30)),
	}
	dist := a.Distribution(sales)
	assert.Equal(t, []string{"recife", "natal"}, dist.ByCity.Keys())
}

func TestDistributionCityTiesKeepFirstSeenOrder(t *testing.T) {
	a := NewDemographicsAggregator()
	sales := []models.Sale{
		customerSale("c1", "F", "natal", intPtr(30)),
		customerSale("c2", "F", "recife", intPtr(30)),
	}
	dist := a.Distribution(sales)
	assert.Equal(t, []string{"natal", "recife"}, dist.ByCity.Keys())
}

func TestDistributionNilAgeBucket(t *testing.T) {
	a := NewDemographicsAggregator()
	sales := []models.Sale{
		customerSale("c1", "F", "x", nil),
		customerSale("c2", "F", "x", intPtr(70)),
	}
	dist := a.Distribution(sales)

	unknown, ok := dist.ByAgeBracket.Get("Não informado")
	require.True(t, ok)
	assert.Equal(t, int64(1), unknown.Count)
	assert.InDelta(t, 50.0, unknown.Percent, 1e-9)
}

func TestDistributionPercentagesSumToRoughly100(t *testing.T) {
	a := NewDemographicsAggregator()
	sales := []models.Sale{
		customerSale("c1", "F", "a", intPtr(20)),
		customerSale("c2", "M", "b", intPtr(30)),
		customerSale("c3", "F", "c", intPtr(40)),
	}
	dist := a.Distribution(sales)

	var sum float64
	for _, key := range dist.ByGender.Keys() {
		item, _ := dist.ByGender.Get(key)
		sum += item.Percent
	}
	assert.InDelta(t, 100.0, sum, 0.01)
}

func TestDistributionSkipsSalesWithoutCustomer(t *testing.T) {
	a := NewDemographicsAggregator()
	dist := a.Distribution([]models.Sale{{ID: "t1"}})
	assert.Equal(t, 0, dist.ByGender.Len())
	assert.Equal(t, 0, dist.ByAgeBracket.Len())
	assert.Equal(t, 0, dist.ByCity.Len())
}

func TestDistributionEmptyInput(t *testing.T) {
	a := NewDemographicsAggregator()
	dist := a.Distribution(nil)
	assert.Equal(t, 0, dist.ByGender.Len())
}
