// Package common holds the value sets shared by both the market-data and
// order stacks. These are closed, server-documented enumerations: this
// package only represents them, it never interprets them.
package common

import "strconv"

// Currency is the 3-letter account currency code used on both stacks.
type Currency string

const (
	GBP Currency = "GBP"
	USD Currency = "USD"
	EUR Currency = "EUR"
	INR Currency = "INR"
	JPY Currency = "JPY"
	NOK Currency = "NOK"
)

// Lang is the topic/response language code. Only "en" is documented.
type Lang string

const LangEnglish Lang = "en"

// PriceFormat controls how odds are represented on a session.
type PriceFormat int

const (
	PriceFormatDecimal    PriceFormat = 1
	PriceFormatFractional PriceFormat = 2
	PriceFormatAmerican   PriceFormat = 3
)

// MarketStatus is the lifecycle state of a market.
type MarketStatus int

const (
	MarketStatusInactive  MarketStatus = 1
	MarketStatusActive    MarketStatus = 2
	MarketStatusSuspended MarketStatus = 3
	MarketStatusCompleted MarketStatus = 4
	MarketStatusSettled   MarketStatus = 6
	MarketStatusVoided    MarketStatus = 7
)

// SelectionStatus is the lifecycle state of a single selection.
type SelectionStatus int

const (
	SelectionStatusInactive    SelectionStatus = 1
	SelectionStatusActive      SelectionStatus = 2
	SelectionStatusSuspended   SelectionStatus = 3
	SelectionStatusWithdrawn   SelectionStatus = 4
	SelectionStatusVoided      SelectionStatus = 5
	SelectionStatusCompleted   SelectionStatus = 6
	SelectionStatusSettled     SelectionStatus = 8
	SelectionStatusBallotedOut SelectionStatus = 9
)

// MarketType enumerates the sport/market taxonomy codes carried on market
// topics and subscription filters.
type MarketType int

const (
	MarketTypeWin                   MarketType = 1
	MarketTypePlace                 MarketType = 2
	MarketTypeMatchOdds             MarketType = 3
	MarketTypeOverUnder             MarketType = 4
	MarketTypeAsianHandicap         MarketType = 10
	MarketTypeTwoBall               MarketType = 11
	MarketTypeThreeBall             MarketType = 12
	MarketTypeUnspecified           MarketType = 13
	MarketTypeMatchMarket           MarketType = 14
	MarketTypeSetMarket             MarketType = 15
	MarketTypeMoneyline             MarketType = 16
	MarketTypeTotal                 MarketType = 17
	MarketTypeHandicap              MarketType = 18
	MarketTypeEachWayNonHandicap    MarketType = 19
	MarketTypeEachWayHandicap       MarketType = 20
	MarketTypeEachWayTournament     MarketType = 21
	MarketTypeRunningBall           MarketType = 22
	MarketTypeMatchBetting          MarketType = 23
	MarketTypeMatchBettingInclDraw  MarketType = 24
	MarketTypeCorrectScore          MarketType = 25
	MarketTypeHalfTimeFullTime      MarketType = 26
	MarketTypeTotalGoals            MarketType = 27
	MarketTypeGoalsScored           MarketType = 28
	MarketTypeCorners               MarketType = 29
	MarketTypeOddsOrEvens           MarketType = 30
	MarketTypeHalfTimeResult        MarketType = 31
	MarketTypeHalfTimeScore         MarketType = 32
	MarketTypeMatchOddsExtraTime    MarketType = 33
	MarketTypeCorrectScoreExtraTime MarketType = 34
	MarketTypeOverUnderExtraTime    MarketType = 35
	MarketTypeToQualify             MarketType = 36
	MarketTypeDrawNoBet             MarketType = 37
	MarketTypeHalftimeAsianHcp      MarketType = 39
	MarketTypeHalftimeOverUnder     MarketType = 40
	MarketTypeNextGoal              MarketType = 41
	MarketTypeFirstGoalscorer       MarketType = 42
	MarketTypeLastGoalscorer        MarketType = 43
	MarketTypePlayerToScore         MarketType = 44
	MarketTypeFirstHalfHandicap     MarketType = 45
	MarketTypeFirstHalfTotal        MarketType = 46
	MarketTypeSetBetting            MarketType = 47
	MarketTypeGroupBetting          MarketType = 48
	MarketTypeMatchplaySingle       MarketType = 49
	MarketTypeMatchplayFourball     MarketType = 50
	MarketTypeMatchplayFoursome     MarketType = 51
	MarketTypeTiedMatch             MarketType = 52
	MarketTypeTopBatsman            MarketType = 53
	MarketTypeInningsRuns           MarketType = 54
	MarketTypeTotalTries            MarketType = 55
	MarketTypeTotalPoints           MarketType = 56
	MarketTypeFrameBetting          MarketType = 57
	MarketTypeToScoreFirst          MarketType = 58
	MarketTypeToScoreLast           MarketType = 59
	MarketTypeFirstScoringPlay      MarketType = 60
	MarketTypeLastScoringPlay       MarketType = 61
	MarketTypeHighestScoringQtr     MarketType = 62
	MarketTypeRunLine               MarketType = 63
	MarketTypeRoundBetting          MarketType = 64
)

// ReturnCode is the command acknowledgement status carried by every AAPI
// response. Only Success and EventClassifierDoesNotExist are treated as
// non-terminal by the session driver; every other code closes the socket.
type ReturnCode int

const (
	Success                                  ReturnCode = 0
	ResourceError                            ReturnCode = 1
	SystemError                              ReturnCode = 2
	EventClassifierDoesNotExist              ReturnCode = 5
	CurrencyNotValid                         ReturnCode = 23
	LanguageDoesNotExist                     ReturnCode = 71
	CurrencyDoesNotExist                     ReturnCode = 105
	ParameterFormatError                     ReturnCode = 113
	ParameterMissingError                    ReturnCode = 134
	PunterSuspended                          ReturnCode = 208
	IncorrectVersionNumber                   ReturnCode = 308
	PunterIsBlacklisted                      ReturnCode = 406
	UnacceptableIPAddress                    ReturnCode = 437
	PunterNotRegisteredToIntegrationPartner  ReturnCode = 500
	IntegrationPartnerDoesNotExist           ReturnCode = 504
	PartnerTokenNotAuthenticated             ReturnCode = 511
	SessionTokenNotAuthenticated             ReturnCode = 512
	PunterIntegrationPartnerMismatch         ReturnCode = 513
	SessionTokenNoLongerValid                ReturnCode = 514
	UsernameDoesNotExist                     ReturnCode = 518
	PasswordAuthenticationNotAllowed         ReturnCode = 521
	DeprecatedAPIVersion                     ReturnCode = 531
	PunterNotAuthenticated                   ReturnCode = 612
	AAPIDoesNotExist                         ReturnCode = 658
	ConcurrentSessionLimitReached            ReturnCode = 671
	ConnectionInInvalidState                 ReturnCode = 672
	PunterNotAuthorisedForAAPI               ReturnCode = 673
	PunterIsBanned                           ReturnCode = 675
	AAPINotSupported                         ReturnCode = 701
	MaximumSubscribedMarketsReached          ReturnCode = 961
)

var returnCodeNames = map[ReturnCode]string{
	Success:                                  "Success",
	ResourceError:                            "ResourceError",
	SystemError:                              "SystemError",
	EventClassifierDoesNotExist:              "EventClassifierDoesNotExist",
	CurrencyNotValid:                         "CurrencyNotValid",
	LanguageDoesNotExist:                     "LanguageDoesNotExist",
	CurrencyDoesNotExist:                     "CurrencyDoesNotExist",
	ParameterFormatError:                     "ParameterFormatError",
	ParameterMissingError:                    "ParameterMissingError",
	PunterSuspended:                          "PunterSuspended",
	IncorrectVersionNumber:                   "IncorrectVersionNumber",
	PunterIsBlacklisted:                      "PunterIsBlacklisted",
	UnacceptableIPAddress:                    "UnacceptableIPAddress",
	PunterNotRegisteredToIntegrationPartner:  "PunterNotRegisteredToIntegrationPartner",
	IntegrationPartnerDoesNotExist:           "IntegrationPartnerDoesNotExist",
	PartnerTokenNotAuthenticated:             "PartnerTokenNotAuthenticated",
	SessionTokenNotAuthenticated:             "SessionTokenNotAuthenticated",
	PunterIntegrationPartnerMismatch:         "PunterIntegrationPartnerMismatch",
	SessionTokenNoLongerValid:                "SessionTokenNoLongerValid",
	UsernameDoesNotExist:                     "UsernameDoesNotExist",
	PasswordAuthenticationNotAllowed:         "PasswordAuthenticationNotAllowed",
	DeprecatedAPIVersion:                     "DeprecatedAPIVersion",
	PunterNotAuthenticated:                   "PunterNotAuthenticated",
	AAPIDoesNotExist:                         "AAPIDoesNotExist",
	ConcurrentSessionLimitReached:            "ConcurrentSessionLimitReached",
	ConnectionInInvalidState:                 "ConnectionInInvalidState",
	PunterNotAuthorisedForAAPI:               "PunterNotAuthorisedForAAPI",
	PunterIsBanned:                           "PunterIsBanned",
	AAPINotSupported:                         "AAPINotSupported",
	MaximumSubscribedMarketsReached:          "MaximumSubscribedMarketsReached",
}

func (rc ReturnCode) String() string {
	if name, ok := returnCodeNames[rc]; ok {
		return name
	}
	return "ReturnCode(" + strconv.Itoa(int(rc)) + ")"
}

// IsTerminal reports whether the session driver must close and reconnect
// after receiving this return code on a command response.
func (rc ReturnCode) IsTerminal() bool {
	return rc != Success && rc != EventClassifierDoesNotExist
}
