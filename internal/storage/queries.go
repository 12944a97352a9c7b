package storage

// Every flight query selects the full flights row plus normalized aliases.
// AIRLINE appears twice (flights.* carries the carrier id); the later
// airlines.AIRLINE column wins in the record, the id stays in AIRLINE_CODE.
const flightColumns = `
	flights.*,
	flights.AIRLINE AS AIRLINE_CODE,
	airlines.AIRLINE AS AIRLINE,
	flights.ID AS FLIGHT_ID,
	flights.DEPARTURE_DELAY AS DELAY
FROM flights
JOIN airlines ON flights.AIRLINE = airlines.ID`

const (
	QueryFlightByID = `SELECT` + flightColumns + `
WHERE flights.ID = :id`

	QueryFlightsByDate = `SELECT` + flightColumns + `
WHERE flights.YEAR = :year AND flights.MONTH = :month
	AND flights.DAY = :day`

	QueryDelayedFlightsByAirline = `SELECT` + flightColumns + `
WHERE airlines.AIRLINE = :airline
	AND flights.DEPARTURE_DELAY > 0`

	QueryDelayedFlightsByAirport = `SELECT` + flightColumns + `
WHERE flights.ORIGIN_AIRPORT = :airport
	AND flights.DEPARTURE_DELAY > 0`

	QueryAllFlights = `SELECT` + flightColumns

	QueryAirports = `
SELECT
	IATA_CODE,
	LATITUDE,
	LONGITUDE
FROM airports`
)
