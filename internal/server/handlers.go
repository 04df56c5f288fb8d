package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rgehrsitz/taxgo/internal/calculation"
	"github.com/rgehrsitz/taxgo/internal/compare"
	"github.com/rgehrsitz/taxgo/internal/domain"
	"github.com/rgehrsitz/taxgo/internal/logging"
	"github.com/rgehrsitz/taxgo/internal/planner"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// maxProjectionYears bounds the series length a single request can ask for
const maxProjectionYears = 100

var errBadRequest = errors.New("invalid request")

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

// statusFor maps engine and input errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownTaxYear):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, domain.ErrUnknownJurisdiction),
		errors.Is(err, domain.ErrUnknownFilingStatus),
		errors.Is(err, domain.ErrNegativeAmount),
		errors.Is(err, planner.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("request_id", requestIDFrom(c)), zap.Error(err))
		msg = "internal server error"
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, errorResponse{Error: msg, RequestID: requestIDFrom(c)})
}

// bind decodes the JSON body into req
func bind(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// engineFor returns an engine for year (0 selects the default year). It
// fails fast when the request has already been cancelled.
func (s *Server) engineFor(c *gin.Context, year int) (*calculation.CalculationEngine, error) {
	if err := c.Request.Context().Err(); err != nil {
		return nil, err
	}
	if year == 0 {
		year = s.cfg.DefaultTaxYear
	}
	rules, err := s.registry.Rules(year)
	if err != nil {
		return nil, err
	}
	engine := calculation.NewCalculationEngine(rules)
	engine.SetLogger(logging.Engine(s.logger.With(zap.String("request_id", requestIDFrom(c)))))
	return engine, nil
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "taxYears": s.registry.Years()})
}

type liabilityRequest struct {
	TaxYear         int                     `json:"taxYear"`
	Profile         domain.TaxProfile       `json:"profile"`
	Itemized        *domain.ItemizedInputs  `json:"itemized,omitempty"`
	Trading         *domain.ScheduleDInputs `json:"trading,omitempty"`
	State           string                  `json:"state,omitempty"`
	CustomStateRate decimal.Decimal         `json:"customStateRate"`
}

type liabilityResponse struct {
	TaxYear   int                     `json:"taxYear"`
	Profile   domain.TaxProfile       `json:"profile"`
	ScheduleD *domain.ScheduleDResult `json:"scheduleD,omitempty"`
	Liability domain.LiabilityResult  `json:"liability"`
	State     *domain.StateTaxResult  `json:"state,omitempty"`
}

func (s *Server) liability(c *gin.Context) {
	var req liabilityRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	if err := req.Profile.Validate(); err != nil {
		s.fail(c, fmt.Errorf("%w: profile: %w", errBadRequest, err))
		return
	}
	if req.Itemized != nil {
		if err := req.Itemized.Validate(); err != nil {
			s.fail(c, fmt.Errorf("itemized: %w", err))
			return
		}
	}

	engine, err := s.engineFor(c, req.TaxYear)
	if err != nil {
		s.fail(c, err)
		return
	}

	profile, sd := engine.ScenarioProfile(domain.Scenario{Profile: req.Profile, Itemized: req.Itemized, Trading: req.Trading})
	res := engine.Liability(profile)
	resp := liabilityResponse{TaxYear: engine.Rules.Year, Profile: profile, ScheduleD: sd, Liability: res}

	if req.State != "" {
		st, err := engine.StateEstimate(calculation.StateTaxBase(profile, res), profile.FilingStatus, req.State, req.CustomStateRate)
		if err != nil {
			s.fail(c, err)
			return
		}
		resp.State = &st
	}

	s.metrics.observeCalculation("liability")
	c.JSON(http.StatusOK, resp)
}

type compareRequest struct {
	TaxYear    int                      `json:"taxYear"`
	Name       string                   `json:"name,omitempty"`
	Profile    domain.TaxProfile        `json:"profile"`
	Itemized   *domain.ItemizedInputs   `json:"itemized,omitempty"`
	Trading    *domain.ScheduleDInputs  `json:"trading,omitempty"`
	Strategies domain.StrategyElections `json:"strategies"`
}

func (s *Server) compare(c *gin.Context) {
	var req compareRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	if err := req.Profile.Validate(); err != nil {
		s.fail(c, fmt.Errorf("%w: profile: %w", errBadRequest, err))
		return
	}

	engine, err := s.engineFor(c, req.TaxYear)
	if err != nil {
		s.fail(c, err)
		return
	}

	cs, err := compare.NewCompareEngine(engine).CompareScenario(c.Request.Context(), domain.Scenario{
		Name:       req.Name,
		Profile:    req.Profile,
		Itemized:   req.Itemized,
		Trading:    req.Trading,
		Strategies: req.Strategies,
	})
	if err != nil {
		s.fail(c, err)
		return
	}

	s.metrics.observeCalculation("compare")
	c.JSON(http.StatusOK, cs)
}

type scheduleDRequest struct {
	TaxYear int `json:"taxYear"`
	domain.ScheduleDInputs
}

func (s *Server) scheduleD(c *gin.Context) {
	var req scheduleDRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	engine, err := s.engineFor(c, req.TaxYear)
	if err != nil {
		s.fail(c, err)
		return
	}

	s.metrics.observeCalculation("schedule_d")
	c.JSON(http.StatusOK, engine.ScheduleD(req.ScheduleDInputs))
}

type stateTaxRequest struct {
	TaxYear       int                 `json:"taxYear"`
	State         string              `json:"state" binding:"required"`
	FilingStatus  domain.FilingStatus `json:"filingStatus"`
	TaxableIncome decimal.Decimal     `json:"taxableIncome"`
	CustomRate    decimal.Decimal     `json:"customRate"` // percent
}

func (s *Server) stateTax(c *gin.Context) {
	var req stateTaxRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	if req.CustomRate.IsNegative() || req.CustomRate.GreaterThan(decimal.NewFromInt(100)) {
		s.fail(c, fmt.Errorf("%w: customRate must be between 0 and 100", errBadRequest))
		return
	}
	engine, err := s.engineFor(c, req.TaxYear)
	if err != nil {
		s.fail(c, err)
		return
	}

	res, err := engine.StateEstimate(req.TaxableIncome, req.FilingStatus, req.State, req.CustomRate)
	if err != nil {
		s.fail(c, err)
		return
	}

	s.metrics.observeCalculation("state_tax")
	c.JSON(http.StatusOK, res)
}

type projectionRequest struct {
	Principal    decimal.Decimal  `json:"principal"`
	Contribution decimal.Decimal  `json:"contribution"`
	Years        int              `json:"years"`
	Rate         *decimal.Decimal `json:"rate,omitempty"`
}

func (s *Server) projection(c *gin.Context) {
	var req projectionRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	if req.Years < 0 || req.Years > maxProjectionYears {
		s.fail(c, fmt.Errorf("%w: years must be between 0 and %d", errBadRequest, maxProjectionYears))
		return
	}
	engine, err := s.engineFor(c, 0)
	if err != nil {
		s.fail(c, err)
		return
	}

	s.metrics.observeCalculation("projection")
	c.JSON(http.StatusOK, engine.Project(req.Principal, req.Contribution, req.Years, req.Rate))
}

type planRequest struct {
	TaxYear int `json:"taxYear"`
	domain.PlannerInput
}

func (s *Server) plan(c *gin.Context) {
	var req planRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	engine, err := s.engineFor(c, req.TaxYear)
	if err != nil {
		s.fail(c, err)
		return
	}

	plan, err := planner.NewPlanner(engine).Plan(c.Request.Context(), req.PlannerInput)
	if err != nil {
		s.fail(c, err)
		return
	}

	s.metrics.observeCalculation("plan")
	c.JSON(http.StatusOK, plan)
}

type sensitivityRequest struct {
	TaxYear   int                         `json:"taxYear"`
	Profile   domain.TaxProfile           `json:"profile"`
	Parameter domain.SensitivityParameter `json:"parameter"`
}

func (s *Server) sensitivity(c *gin.Context) {
	var req sensitivityRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	if err := req.Profile.Validate(); err != nil {
		s.fail(c, fmt.Errorf("%w: profile: %w", errBadRequest, err))
		return
	}
	if err := req.Parameter.Validate(); err != nil {
		s.fail(c, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}
	engine, err := s.engineFor(c, req.TaxYear)
	if err != nil {
		s.fail(c, err)
		return
	}

	analysis, err := calculation.NewSensitivityAnalyzer(engine).Analyze(c.Request.Context(), req.Profile, req.Parameter)
	if err != nil {
		s.fail(c, err)
		return
	}

	s.metrics.observeCalculation("sensitivity")
	c.JSON(http.StatusOK, analysis)
}

func (s *Server) rules(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		s.fail(c, fmt.Errorf("%w: year %q is not a number", errBadRequest, c.Param("year")))
		return
	}
	rules, err := s.registry.Rules(year)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rules)
}

type stateEntry struct {
	Key   string                  `json:"key"`
	Label string                  `json:"label"`
	Type  domain.JurisdictionKind `json:"type"`
}

func (s *Server) states(c *gin.Context) {
	year := s.cfg.DefaultTaxYear
	if q := c.Query("year"); q != "" {
		y, err := strconv.Atoi(q)
		if err != nil {
			s.fail(c, fmt.Errorf("%w: year %q is not a number", errBadRequest, q))
			return
		}
		year = y
	}
	rules, err := s.registry.Rules(year)
	if err != nil {
		s.fail(c, err)
		return
	}

	out := make([]stateEntry, 0, len(rules.States))
	for _, key := range rules.StateKeys() {
		sr := rules.States[key]
		out = append(out, stateEntry{Key: key, Label: sr.Label, Type: sr.Type})
	}
	c.JSON(http.StatusOK, out)
}
