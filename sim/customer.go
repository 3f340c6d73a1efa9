// Defines the Customer struct that models one visitor to the post office.
// Tracks purpose, estimated service duration, counter assignment and timestamps.

package sim

import (
	"fmt"
	"time"
)

// Purpose is the reason a customer visits the counter.
type Purpose string

const (
	PurposeMailing       Purpose = "Mailing"
	PurposePayment       Purpose = "Payment"
	PurposePackagePickup Purpose = "Package Pickup"
	PurposeInquiry       Purpose = "Inquiry"
	PurposeOther         Purpose = "Other"
)

// Purposes lists every purpose in the fixed order used for uniform draws.
var Purposes = []Purpose{
	PurposeMailing,
	PurposePayment,
	PurposePackagePickup,
	PurposeInquiry,
	PurposeOther,
}

// CustomerState represents the lifecycle state of a customer.
type CustomerState string

const (
	StateArrived  CustomerState = "arrived"
	StateAssigned CustomerState = "assigned"
	StateResolved CustomerState = "resolved"
	StateDropped  CustomerState = "dropped"
)

// MaxCustomerID bounds the random identifier range [1, MaxCustomerID].
// Identifiers are drawn independently and may collide.
const MaxCustomerID = 20000

// Customer is one visitor moving through the queue during a simulated day.
type Customer struct {
	ID      int     // Random identifier, not guaranteed unique within a run
	Purpose Purpose // Fixed at arrival

	EstimatedMinutes int // Estimated service duration from ServiceTimeModel; informational only

	State         CustomerState
	Counter       int       // Assigned counter in 1..C; 0 until assigned
	ArrivalTime   time.Time // Time the customer joins the queue
	DepartureTime time.Time // Zero until resolved
	WaitMinutes   float64   // DepartureTime - ArrivalTime in minutes
}

// NewCustomer creates a customer in the arrived state.
func NewCustomer(id int, purpose Purpose, estimated int, arrival time.Time) *Customer {
	return &Customer{
		ID:               id,
		Purpose:          purpose,
		EstimatedMinutes: estimated,
		State:            StateArrived,
		ArrivalTime:      arrival,
	}
}

// resolve sets the departure timestamp and derived wait time.
// Panics if departure is not strictly after arrival.
func (c *Customer) resolve(departure time.Time) {
	if !departure.After(c.ArrivalTime) {
		panic(fmt.Sprintf("customer %d: departure %s not after arrival %s", c.ID, departure, c.ArrivalTime))
	}
	c.DepartureTime = departure
	c.WaitMinutes = departure.Sub(c.ArrivalTime).Minutes()
	c.State = StateResolved
}

func (c Customer) String() string {
	return fmt.Sprintf("Customer: (ID: %d, Purpose: %s, State: %s, Counter: %d, Arrival: %s)",
		c.ID, c.Purpose, c.State, c.Counter, c.ArrivalTime.Format(TimestampLayout))
}
