package core

// Environment selects the runtime profile the chatbot logs and behaves
// under.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

// ParseEnvironment normalises the ENVIRONMENT value into one of the known
// environments. Unknown values fall back to Development so the demo can
// start without configuration.
func ParseEnvironment(v string) Environment {
	switch Environment(v) {
	case Production:
		return Production
	case Staging:
		return Staging
	case Testing:
		return Testing
	default:
		return Development
	}
}
