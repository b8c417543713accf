package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-advisor/config"
	"loan-advisor/domain"
	"loan-advisor/repository"
)

func newEligibilityService() *EligibilityService {
	return NewEligibilityService(repository.DefaultCatalog(), config.DefaultAffordabilityMultipliers())
}

func salariedApplicant() domain.ApplicantProfile {
	return domain.ApplicantProfile{
		LoanType:         "Personal",
		Age:              30,
		MonthlyIncome:    50000,
		CibilScore:       750,
		EmploymentStatus: "Salaried",
	}
}

func TestEvaluate_Eligible(t *testing.T) {
	s := newEligibilityService()

	verdict, err := s.Evaluate(salariedApplicant())
	require.NoError(t, err)

	assert.True(t, verdict.IsEligible)
	require.NotNil(t, verdict.MaxAmount)
	assert.Greater(t, *verdict.MaxAmount, 0.0)

	// 50,000/month salaried: 50,000 * 12 * 0.60 = 360,000.
	assert.Equal(t, 360000.0, *verdict.MaxAmount)
}

func TestEvaluate_ChecksRunInOrder(t *testing.T) {
	s := newEligibilityService()

	t.Run("age fails first regardless of other fields", func(t *testing.T) {
		profile := salariedApplicant()
		profile.Age = 16
		profile.CibilScore = 310
		profile.MonthlyIncome = 1

		verdict, err := s.Evaluate(profile)
		require.NoError(t, err)
		assert.False(t, verdict.IsEligible)
		assert.Equal(t, msgAgeOutsideRange, verdict.Message)
		assert.Nil(t, verdict.MaxAmount)
	})

	t.Run("credit fails before income", func(t *testing.T) {
		profile := salariedApplicant()
		profile.CibilScore = 500
		profile.MonthlyIncome = 1

		verdict, err := s.Evaluate(profile)
		require.NoError(t, err)
		assert.False(t, verdict.IsEligible)
		assert.Equal(t, msgCreditBelowMin, verdict.Message)
	})

	t.Run("income checked last", func(t *testing.T) {
		profile := salariedApplicant()
		profile.MonthlyIncome = 10000

		verdict, err := s.Evaluate(profile)
		require.NoError(t, err)
		assert.False(t, verdict.IsEligible)
		assert.Equal(t, msgIncomeBelowMin, verdict.Message)
	})
}

func TestEvaluate_AgeBoundsInclusive(t *testing.T) {
	s := newEligibilityService()

	for _, age := range []int{21, 60} {
		profile := salariedApplicant()
		profile.Age = age

		verdict, err := s.Evaluate(profile)
		require.NoError(t, err)
		assert.True(t, verdict.IsEligible, "age %d should be inside the inclusive range", age)
	}
}

func TestEvaluate_MaxAmountNeverExceedsCatalogCeiling(t *testing.T) {
	catalog := repository.DefaultCatalog()
	s := NewEligibilityService(catalog, config.DefaultAffordabilityMultipliers())

	for _, loanType := range catalog.List() {
		profile := domain.ApplicantProfile{
			LoanType:         loanType.Name,
			Age:              loanType.MinAge,
			MonthlyIncome:    10_000_000, // absurdly high income to force the clamp
			CibilScore:       900,
			EmploymentStatus: "Salaried",
		}

		verdict, err := s.Evaluate(profile)
		require.NoError(t, err)
		require.True(t, verdict.IsEligible)
		require.NotNil(t, verdict.MaxAmount)
		assert.LessOrEqual(t, *verdict.MaxAmount, loanType.MaxAmount,
			"max amount for %s must not exceed the catalog ceiling", loanType.Name)
		assert.Equal(t, loanType.MaxAmount, *verdict.MaxAmount)
	}
}

func TestEvaluate_EmploymentStatusScalesCap(t *testing.T) {
	s := newEligibilityService()

	salaried := salariedApplicant()
	freelancer := salariedApplicant()
	freelancer.EmploymentStatus = "Freelancer"

	v1, err := s.Evaluate(salaried)
	require.NoError(t, err)
	v2, err := s.Evaluate(freelancer)
	require.NoError(t, err)

	assert.Greater(t, *v1.MaxAmount, *v2.MaxAmount,
		"salaried applicants get a higher affordability multiple")
}

func TestEvaluate_UnknownLoanType(t *testing.T) {
	s := newEligibilityService()

	profile := salariedApplicant()
	profile.LoanType = "Spaceship"

	_, err := s.Evaluate(profile)
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestEvaluate_CaseInsensitiveLoanType(t *testing.T) {
	s := newEligibilityService()

	profile := salariedApplicant()
	profile.LoanType = "personal"

	verdict, err := s.Evaluate(profile)
	require.NoError(t, err)
	assert.True(t, verdict.IsEligible)
}

func TestEvaluate_Idempotent(t *testing.T) {
	s := newEligibilityService()
	profile := salariedApplicant()

	first, err := s.Evaluate(profile)
	require.NoError(t, err)
	second, err := s.Evaluate(profile)
	require.NoError(t, err)

	assert.Equal(t, first.IsEligible, second.IsEligible)
	assert.Equal(t, first.Message, second.Message)
	assert.Equal(t, *first.MaxAmount, *second.MaxAmount)
}

func TestEvaluate_RejectsInvalidProfile(t *testing.T) {
	s := newEligibilityService()

	profile := salariedApplicant()
	profile.Age = 0

	_, err := s.Evaluate(profile)
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}
