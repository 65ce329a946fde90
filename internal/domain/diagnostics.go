package domain

// Diagnostic check names, in the order the probe runs them.
const (
	CheckAddress    = "address"
	CheckContract   = "contract"
	CheckCapability = "capability"
	CheckStorage    = "storage"
)

// DiagnosticReport aggregates one full probe run. It is rebuilt from scratch
// on every run, never merged with a previous report.
type DiagnosticReport struct {
	AddressOK    bool
	Reachable    bool
	CapabilityOK bool
	ReadOK       bool
	Errors       map[string]string
}

func (r DiagnosticReport) Healthy() bool {
	return r.AddressOK && r.Reachable && r.CapabilityOK && r.ReadOK
}

// Recommendations derives human-readable guidance purely from the boolean
// outcomes of the current run.
func (r DiagnosticReport) Recommendations() []string {
	var recs []string
	if !r.AddressOK {
		recs = append(recs, "check the configured contract address; it is not a valid hex address")
	}
	if r.AddressOK && !r.Reachable {
		recs = append(recs, "the contract did not answer a trivial view call; verify the RPC endpoint and that the contract is deployed at the configured address")
	}
	if r.Reachable && !r.CapabilityOK {
		recs = append(recs, "the contract answered but the expected note capability is missing; the address may point at a different contract")
	}
	if r.Reachable && !r.ReadOK {
		recs = append(recs, "the note listing read failed; the contract may be an older deployment without list support")
	}
	if r.Healthy() {
		recs = append(recs, "all checks passed")
	}
	return recs
}
