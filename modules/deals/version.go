package deals

const Version = "v0.1.0"
