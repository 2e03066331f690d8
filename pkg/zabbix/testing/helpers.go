package testing

// SeedProblems registers hosts and their problems in one go.
// Keys of problems are host ids; hosts keep the order given in hosts.
func SeedProblems(m *MockServer, hosts []Host, problems map[string][]Problem) {
	for _, h := range hosts {
		m.AddHost(h.ID, h.Name)
		for _, p := range problems[h.ID] {
			m.AddRawProblem(h.ID, p)
		}
	}
}
