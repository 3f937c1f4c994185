package fixtures

import "github.com/cfmtoolbox/cfm-core/pkg/model"

func leaf(name string, card model.Cardinality) *model.Feature {
	return model.NewFeature(name, card, nil, nil)
}

func card(lower, upper uint32) model.Cardinality {
	return model.Cardinality{model.NewInterval(lower, upper)}
}

func unbound(lower uint32) model.Cardinality {
	return model.Cardinality{model.NewUnboundedInterval(lower)}
}

// Sandwich builds the bounded Sandwich CFM from spec.md §8 scenario S2:
// a root with a mandatory Bread choice, an optional CheeseMix group, and
// an optional Veggies group. Every cardinality in this tree is already
// finite.
func Sandwich() *model.CFM {
	root := model.NewFeature("Sandwich", card(1, 1), card(1, 3), card(1, 3))

	bread := model.NewFeature("Bread", card(1, 1), card(1, 1), card(1, 1))
	sourdough := leaf("Sourdough", card(0, 1))
	wheat := leaf("Wheat", card(0, 1))
	bread.AddChild(sourdough)
	bread.AddChild(wheat)

	cheeseMix := model.NewFeature("CheeseMix", card(0, 1), card(1, 3), card(1, 3))
	cheddar := leaf("Cheddar", card(0, 1))
	swiss := leaf("Swiss", card(0, 1))
	gouda := leaf("Gouda", card(0, 1))
	cheeseMix.AddChild(cheddar)
	cheeseMix.AddChild(swiss)
	cheeseMix.AddChild(gouda)

	veggies := model.NewFeature("Veggies", card(0, 1), card(1, 2), card(1, 2))
	lettuce := leaf("Lettuce", card(0, 1))
	tomato := leaf("Tomato", card(0, 1))
	veggies.AddChild(lettuce)
	veggies.AddChild(tomato)

	root.AddChild(bread)
	root.AddChild(cheeseMix)
	root.AddChild(veggies)

	return &model.CFM{Root: root}
}

// SandwichWheatRequiresTomato returns the Sandwich CFM from S2 plus the
// require constraint from S4: Wheat's global count being 1 forces
// Tomato's global count to also be 1.
func SandwichWheatRequiresTomato() *model.CFM {
	cfm := Sandwich()
	wheat := cfm.FeatureByName("Wheat")
	tomato := cfm.FeatureByName("Tomato")
	cfm.Constraints = append(cfm.Constraints, model.Constraint{
		Require:    true,
		First:      wheat,
		FirstCard:  card(1, 1),
		Second:     tomato,
		SecondCard: card(1, 1),
	})
	return cfm
}

// SandwichUnbound builds an unbounded variant in the shape of spec.md §8
// scenario S3: Tomato's instance cardinality and Veggies' group instance
// cardinality are left open-ended, and Bread/CheeseMix are widened so the
// Big-M bound computation (§4.2) has more than one finite path to choose
// from. The exact global upper bound here (3) is hand-verified against
// the §4.2 algorithm rather than copied from S3, whose own constant (12)
// depends on cardinality values the scenario text does not fully spell
// out.
func SandwichUnbound() *model.CFM {
	root := model.NewFeature("Sandwich", card(1, 1), card(1, 3), card(1, 3))

	bread := model.NewFeature("Bread", card(1, 2), card(1, 1), card(1, 1))
	sourdough := leaf("Sourdough", card(0, 1))
	wheat := leaf("Wheat", card(0, 1))
	bread.AddChild(sourdough)
	bread.AddChild(wheat)

	cheeseMix := model.NewFeature("CheeseMix", card(0, 3), card(1, 3), card(1, 3))
	cheddar := leaf("Cheddar", card(0, 1))
	swiss := leaf("Swiss", card(0, 1))
	gouda := leaf("Gouda", card(0, 1))
	cheeseMix.AddChild(cheddar)
	cheeseMix.AddChild(swiss)
	cheeseMix.AddChild(gouda)

	veggies := model.NewFeature("Veggies", card(0, 1), card(1, 2), unbound(1))
	lettuce := leaf("Lettuce", card(0, 1))
	tomato := leaf("Tomato", unbound(0))
	veggies.AddChild(lettuce)
	veggies.AddChild(tomato)

	root.AddChild(bread)
	root.AddChild(cheeseMix)
	root.AddChild(veggies)

	return &model.CFM{Root: root}
}
