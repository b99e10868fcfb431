package sites

// sqFtPerAcre is the survey conversion constant.
const sqFtPerAcre = 43560.0

// DerivedSiteMetrics recomputes the pair of derived site figures from the
// raw inputs. The two always change together so callers can never persist
// a half-stale pair. A non-positive area yields a zero price per square
// foot instead of Inf.
func DerivedSiteMetrics(sizeAcres, askPriceTotal float64) (sizeSqFt, pricePerSqFt float64) {
	sizeSqFt = sizeAcres * sqFtPerAcre
	if sizeSqFt > 0 {
		pricePerSqFt = askPriceTotal / sizeSqFt
	}
	return sizeSqFt, pricePerSqFt
}
