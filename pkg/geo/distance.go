package geo

import "math"

const (
	earthRadiusMiles = 3963.0
)

func havFunction(angleRad float64) float64 {
	return (1 - math.Cos(angleRad)) / 2.0
}

func degreeToRadians(angle float64) float64 {
	return angle * (math.Pi / 180.0)
}

func radiansToDegree(angle float64) float64 {
	return angle * (180.0 / math.Pi)
}

// very slow
func CalculateHaversineDistance(latOne, longOne, latTwo, longTwo float64) float64 {
	latOne = degreeToRadians(latOne)
	longOne = degreeToRadians(longOne)
	latTwo = degreeToRadians(latTwo)
	longTwo = degreeToRadians(longTwo)

	a := havFunction(latOne-latTwo) + math.Cos(latOne)*math.Cos(latTwo)*havFunction(longOne-longTwo)
	c := 2.0 * math.Asin(math.Sqrt(a))
	return earthRadiusMiles * c
}

// CalculateBearing returns the initial bearing in degree from point one
// to point two, measured clockwise from true north. Range (-180, 180].
func CalculateBearing(latOne, longOne, latTwo, longTwo float64) float64 {
	phiOne := degreeToRadians(latOne)
	phiTwo := degreeToRadians(latTwo)
	deltaLambda := degreeToRadians(longTwo - longOne)

	y := math.Sin(deltaLambda) * math.Cos(phiTwo)
	x := math.Cos(phiOne)*math.Sin(phiTwo) - math.Sin(phiOne)*math.Cos(phiTwo)*math.Cos(deltaLambda)
	return radiansToDegree(math.Atan2(y, x))
}

// GetDestinationPoint returns the lat/lon reached after travelling
// distMiles from the start point along the given bearing.
func GetDestinationPoint(lat, lon, bearing, distMiles float64) (float64, float64) {
	delta := distMiles / earthRadiusMiles
	theta := degreeToRadians(bearing)
	phiOne := degreeToRadians(lat)
	lambdaOne := degreeToRadians(lon)

	phiTwo := math.Asin(math.Sin(phiOne)*math.Cos(delta) + math.Cos(phiOne)*math.Sin(delta)*math.Cos(theta))
	lambdaTwo := lambdaOne + math.Atan2(math.Sin(theta)*math.Sin(delta)*math.Cos(phiOne),
		math.Cos(delta)-math.Sin(phiOne)*math.Sin(phiTwo))

	return radiansToDegree(phiTwo), radiansToDegree(lambdaTwo)
}

// PointLinePerpendicularDistance returns the cross track distance (in miles)
// from point p to the great circle through a and b.
func PointLinePerpendicularDistance(aLat, aLon, bLat, bLon, pLat, pLon float64) float64 {
	distAP := CalculateHaversineDistance(aLat, aLon, pLat, pLon)
	if aLat == bLat && aLon == bLon {
		return distAP
	}

	deltaOneThree := distAP / earthRadiusMiles
	thetaOneThree := degreeToRadians(CalculateBearing(aLat, aLon, pLat, pLon))
	thetaOneTwo := degreeToRadians(CalculateBearing(aLat, aLon, bLat, bLon))

	return math.Abs(math.Asin(math.Sin(deltaOneThree)*math.Sin(thetaOneThree-thetaOneTwo)) * earthRadiusMiles)
}
