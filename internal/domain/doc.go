// Package domain models the data behind the healthy and sustainable cities
// scorecards: indicator tables, threshold scenarios, policy ratings, language
// groups and the per-city context handed to the renderers.
//
// # Data Sources
//
// Indicator estimates come from the Global Healthy and Sustainable City
// Indicators study. Each CSV input is indexed by a "City" column holding the
// canonical (English) city name; that name is the key for every lookup in this
// package. Empty cells are read as NaN and skipped by all statistics.
//
// # Access Indicators
//
// Six population access indicators are reported, each the percentage of the
// population living within 500 m of a destination:
//
//	pop_pct_access_500m_fresh_food_market_score          → Food market
//	pop_pct_access_500m_convenience_score                → Convenience
//	pop_pct_access_500m_public_open_space_any_score      → Any public open space
//	pop_pct_access_500m_public_open_space_large_score    → Large public open space
//	pop_pct_access_500m_pt_any_score                     → Public transport stop
//	pop_pct_access_500m_pt_gtfs_freq_20_score            → Public transport with regular service
//
// Between-city comparisons (25th, 50th and 75th percentiles) are computed over
// every city in the indicator table, not only the cities requested for a run,
// so a city's scorecard reads the same whichever language group produced it.
// Percentiles use linear interpolation between closest ranks.
//
// # Threshold Scenarios
//
// Neighbourhood population and street intersection density are placed on a
// range observed across all hexagons of all cities (min/max truncated to
// integers). Named scenarios from the thresholds data locate published health
// thresholds on those ranges. The per-city walkability figure (percentage of
// population in neighbourhoods above the median walkability of all cities) is
// attached through [ThresholdScenarios.ForCity], which copies rather than
// mutates the shared scenarios.
//
// # Policy Ratings
//
// Policy analyses (e.g. "Presence", "Checklist") are per-city checklists. For
// rating-bearing analyses the rating is the mean of the non-missing item
// scores, and a single [Summary] of the rating across all cities is shared by
// every city in a run.
package domain
