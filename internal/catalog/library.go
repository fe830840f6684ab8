package catalog

// library is the built-in content set served until a real curriculum source
// replaces it.
var library = map[string]map[string]Entry{
	"Mathematics": {
		"Algebra": {
			Levels: map[string]string{
				DefaultLevel: "Algebra is the study of mathematical symbols and the rules for manipulating these symbols. It is a unifying thread of almost all of mathematics.",
			},
			Examples: []string{
				"Solving equations like 2x + 3 = 7",
				"Factoring expressions like x² - 4",
			},
			Practice: []string{
				"Solve for x: 3x - 5 = 10",
				"Simplify: (2x + 3)(x - 1)",
			},
		},
		"Calculus": {
			Levels: map[string]string{
				DefaultLevel: "Calculus is the mathematical study of continuous change. The two major branches are differential calculus and integral calculus.",
			},
			Examples: []string{
				"Finding the derivative of f(x) = x²",
				"Calculating the integral of g(x) = 2x",
			},
			Practice: []string{
				"Find the derivative of h(x) = 3x² + 2x - 1",
				"Evaluate ∫x·dx from 0 to 3",
			},
		},
	},
	"Physics": {
		"Mechanics": {
			Levels: map[string]string{
				DefaultLevel: "Mechanics is the study of motion and the forces that cause motion.",
			},
			Examples: []string{
				"A ball thrown upward with velocity 20 m/s",
				"A block sliding down an inclined plane",
			},
			Practice: []string{
				"Calculate the time it takes for an object to fall 100m",
				"Find the force needed to accelerate a 2kg mass at 3 m/s²",
			},
		},
	},
	"Computer Science": {
		"Algorithms": {
			Levels: map[string]string{
				DefaultLevel: "Algorithms are step-by-step procedures for calculations or problem-solving operations.",
			},
			Examples: []string{
				"Binary search algorithm",
				"Bubble sort implementation",
			},
			Practice: []string{
				"Write pseudocode for finding the maximum value in an array",
				"Trace the execution of a merge sort algorithm",
			},
		},
	},
}
