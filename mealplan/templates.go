package mealplan

import "fitcalc-backend/anamnesis"

// Day is one day of a 7-day meal template.
type Day struct {
	Day       string `json:"day"`
	Breakfast string `json:"breakfast"`
	Lunch     string `json:"lunch"`
	Dinner    string `json:"dinner"`
	Snack     string `json:"snack"`
}

type templateKey struct {
	Diet    anamnesis.DietaryPreference
	Economy anamnesis.EconomicProfile
}

// Template selects one of the six fixed meal templates by
// (dietary preference, economic profile). Unknown combinations fall back to
// the omnivore standard template, like the funnel pages do for missing
// query parameters.
func Template(diet anamnesis.DietaryPreference, economy anamnesis.EconomicProfile) []Day {
	if t, ok := templates[templateKey{diet, economy}]; ok {
		return t
	}
	return templates[templateKey{anamnesis.DietOmnivore, anamnesis.EconomicStandard}]
}

var templates = map[templateKey][]Day{
	{anamnesis.DietOmnivore, anamnesis.EconomicEconomical}:   economicalDays,
	{anamnesis.DietOmnivore, anamnesis.EconomicStandard}:     standardDays,
	{anamnesis.DietOmnivore, anamnesis.EconomicFlexible}:     flexibleDays,
	{anamnesis.DietVegetarian, anamnesis.EconomicEconomical}: economicalVegetarianDays,
	{anamnesis.DietVegetarian, anamnesis.EconomicStandard}:   standardVegetarianDays,
	{anamnesis.DietVegetarian, anamnesis.EconomicFlexible}:   flexibleVegetarianDays,
}

var economicalDays = []Day{
	{Day: "Dia 1", Breakfast: "2 ovos mexidos e 1 banana.", Lunch: "120g de frango desfiado, arroz, feijão e salada de alface e tomate.", Dinner: "Sopa de legumes com batata e cenoura.", Snack: "1 maçã."},
	{Day: "Dia 2", Breakfast: "Mingau de aveia com água e canela.", Lunch: "120g de carne moída (patinho) com purê de batata.", Dinner: "Omelete de 2 ovos com queijo e tomate.", Snack: "1 laranja."},
	{Day: "Dia 3", Breakfast: "1 pão francês com ovo na chapa.", Lunch: "1 lata de atum em água com salada de batata, cenoura e vagem.", Dinner: "Caldo de feijão.", Snack: "1 banana."},
	{Day: "Dia 4", Breakfast: "Cuscuz com ovo e queijo coalho.", Lunch: "120g de filé de frango grelhado, macarrão e salada.", Dinner: "Ovos cozidos (2 unidades) com salada verde.", Snack: "1 fatia de melancia."},
	{Day: "Dia 5", Breakfast: "1 iogurte natural e 1/2 mamão.", Lunch: "Arroz, feijão, 1 bife de fígado acebolado e couve refogada.", Dinner: "Sopa de abóbora.", Snack: "1 pêra."},
	{Day: "Dia 6", Breakfast: "2 fatias de pão de forma integral com requeijão.", Lunch: "120g de sobrecoxa de frango assada com batatas.", Dinner: "Sanduíche com pão integral, patê de frango e alface.", Snack: "1 cacho de uvas pequeno."},
	{Day: "Dia 7", Breakfast: "Vitamina de banana com leite.", Lunch: "Refeição livre, com moderação. Coma algo que goste sem gastar muito.", Dinner: "Crepioca (1 ovo, 2 col. de goma) com queijo.", Snack: "Gelatina."},
}

var standardDays = []Day{
	{Day: "Dia 1", Breakfast: "2 ovos mexidos com tomate e 1 fatia de pão integral.", Lunch: "120g de filé de frango grelhado, salada de folhas à vontade e 4 colheres de sopa de arroz integral.", Dinner: "Sopa de legumes com 100g de frango desfiado.", Snack: "1 iogurte natural desnatado com frutas vermelhas."},
	{Day: "Dia 2", Breakfast: "Vitamina de banana (1 banana, 200ml de leite desnatado, 1 col. de aveia).", Lunch: "120g de patinho moído refogado, purê de batata doce e salada de brócolis.", Dinner: "Omelete com 2 ovos, queijo branco e espinafre.", Snack: "1 maçã e um punhado de amêndoas."},
	{Day: "Dia 3", Breakfast: "1 pote de iogurte grego zero com granola sem açúcar.", Lunch: "1 posta de tilápia assada, arroz de couve-flor e aspargos no vapor.", Dinner: "Salada completa com folhas, tomate, pepino, cenoura e 1 lata de atum em água.", Snack: "2 fatias de melão."},
	{Day: "Dia 4", Breakfast: "Panqueca de aveia (1 ovo, 2 col. de aveia) com mel.", Lunch: "120g de tiras de alcatra, mix de legumes refogados e 4 colheres de sopa de batata baroa.", Dinner: "Creme de abóbora com gengibre.", Snack: "1 pera."},
	{Day: "Dia 5", Breakfast: "2 torradas integrais com queijo cottage e geleia sem açúcar.", Lunch: "Strogonoff de frango fit (com creme de ricota), arroz integral.", Dinner: "1 filé de pescada grelhado com purê de mandioquinha.", Snack: "1 banana com canela."},
	{Day: "Dia 6", Breakfast: "Mingau de aveia com whey protein (opcional) e frutas.", Lunch: "Feijoada magra (feijão preto, carne seca, lombo) com couve refogada e 1/2 laranja.", Dinner: "Sanduíche natural com pão integral, frango desfiado, cenoura ralada e alface.", Snack: "Mix de castanhas."},
	{Day: "Dia 7", Breakfast: "Crepioca (1 ovo, 2 col. de goma de tapioca) com recheio de frango.", Lunch: "Refeição livre, com moderação. Aproveite para comer algo que gosta sem exagerar.", Dinner: "Salada Caesar com frango grelhado e molho light.", Snack: "Gelatina diet."},
}

var flexibleDays = []Day{
	{Day: "Dia 1", Breakfast: "Iogurte grego com frutas vermelhas, nozes e fio de mel.", Lunch: "150g de salmão grelhado com aspargos na manteiga e quinoa.", Dinner: "Salada caprese com queijo de búfala e pesto.", Snack: "Shake de whey protein com pasta de amendoim."},
	{Day: "Dia 2", Breakfast: "Pão de fermentação natural com abacate amassado e ovo pochê.", Lunch: "150g de filé mignon em tiras com risoto de cogumelos.", Dinner: "Ceviche de tilápia com chips de batata doce.", Snack: "Um punhado de pistaches."},
	{Day: "Dia 3", Breakfast: "Bowl de açaí puro com granola artesanal, banana e morangos.", Lunch: "150g de camarão ao alho e óleo com purê de mandioquinha.", Dinner: "Sopa cremosa de abóbora com camarões e queijo gorgonzola.", Snack: "Tâmaras com nozes."},
	{Day: "Dia 4", Breakfast: "Ovos beneditinos em pão integral.", Lunch: "150g de lombo de porco com molho de maçã e cuscuz marroquino.", Dinner: "Wrap integral com rosbife, rúcula e mostarda dijon.", Snack: "Mix de frutas secas (damasco, ameixa)."},
	{Day: "Dia 5", Breakfast: "Smoothie verde (couve, abacaxi, whey, água de coco).", Lunch: "Bacalhau à Brás (versão fit).", Dinner: "Carpaccio de carne com alcaparras, parmesão e rúcula.", Snack: "Queijo brie com geleia de pimenta."},
	{Day: "Dia 6", Breakfast: "Panquecas americanas com mirtilos e maple syrup.", Lunch: "Paella de frutos do mar (versão simplificada).", Dinner: "Hambúrguer gourmet caseiro no prato com salada.", Snack: "Chocolate 70% cacau."},
	{Day: "Dia 7", Breakfast: "Bruschettas em pão integral com tomate cereja e manjericão.", Lunch: "Refeição livre premium. Desfrute de um bom restaurante.", Dinner: "Sashimi e temaki (com moderação no arroz).", Snack: "Morangos com creme de ricota."},
}

var economicalVegetarianDays = []Day{
	{Day: "Dia 1", Breakfast: "2 ovos mexidos e 1 banana.", Lunch: "120g de grão de bico cozido, arroz, feijão e salada de alface e tomate.", Dinner: "Sopa de legumes com lentilha.", Snack: "1 maçã."},
	{Day: "Dia 2", Breakfast: "Mingau de aveia com água e canela.", Lunch: "Hambúrguer de lentilha (caseiro) com purê de batata.", Dinner: "Omelete de 2 ovos com queijo e tomate.", Snack: "1 laranja."},
	{Day: "Dia 3", Breakfast: "1 pão francês com ovo na chapa.", Lunch: "Tofu mexido (120g) com salada de batata, cenoura e vagem.", Dinner: "Caldo de feijão.", Snack: "1 banana."},
	{Day: "Dia 4", Breakfast: "Cuscuz com ovo e queijo coalho.", Lunch: "Macarrão ao sugo com proteína de soja texturizada.", Dinner: "Ovos cozidos (2 unidades) com salada verde.", Snack: "1 fatia de melancia."},
	{Day: "Dia 5", Breakfast: "1 iogurte natural e 1/2 mamão.", Lunch: "Arroz, feijão, 1 bife de berinjela e couve refogada.", Dinner: "Sopa de abóbora.", Snack: "1 pêra."},
	{Day: "Dia 6", Breakfast: "2 fatias de pão de forma integral com requeijão.", Lunch: "Escondidinho de batata com recheio de proteína de soja.", Dinner: "Sanduíche com pão integral, pasta de grão de bico (homus) e alface.", Snack: "1 cacho de uvas pequeno."},
	{Day: "Dia 7", Breakfast: "Vitamina de banana com leite.", Lunch: "Refeição livre, com moderação. Coma algo que goste sem gastar muito.", Dinner: "Crepioca (1 ovo, 2 col. de goma) com queijo.", Snack: "Gelatina."},
}

var standardVegetarianDays = []Day{
	{Day: "Dia 1", Breakfast: "2 ovos mexidos com tomate e 1 fatia de pão integral.", Lunch: "120g de tofu grelhado, salada de folhas à vontade e 4 colheres de sopa de arroz integral.", Dinner: "Sopa de legumes com 100g de lentilha.", Snack: "1 iogurte natural desnatado com frutas vermelhas."},
	{Day: "Dia 2", Breakfast: "Vitamina de banana (1 banana, 200ml de leite desnatado, 1 col. de aveia).", Lunch: "Quibe de abóbora com quinoa, purê de batata doce e salada de brócolis.", Dinner: "Omelete com 2 ovos, queijo branco e espinafre.", Snack: "1 maçã e um punhado de amêndoas."},
	{Day: "Dia 3", Breakfast: "1 pote de iogurte grego zero com granola sem açúcar.", Lunch: "Moqueca de banana da terra com arroz e farofa de dendê.", Dinner: "Salada completa com folhas, tomate, pepino, cenoura e 120g de grão de bico.", Snack: "2 fatias de melão."},
	{Day: "Dia 4", Breakfast: "Panqueca de aveia (1 ovo, 2 col. de aveia) com mel.", Lunch: "Strogonoff de palmito, mix de legumes refogados e arroz integral.", Dinner: "Creme de abóbora com gengibre.", Snack: "1 pera."},
	{Day: "Dia 5", Breakfast: "2 torradas integrais com queijo cottage e geleia sem açúcar.", Lunch: "Lasanha de berinjela com recheio de ricota e espinafre.", Dinner: "Falafel assado (4 unidades) com salada de pepino e tomate.", Snack: "1 banana com canela."},
	{Day: "Dia 6", Breakfast: "Mingau de aveia com whey protein (opcional) e frutas.", Lunch: "Feijoada vegetariana (com legumes e tofu defumado) e couve refogada.", Dinner: "Sanduíche natural com pão integral, pasta de abacate, tomate e rúcula.", Snack: "Mix de castanhas."},
	{Day: "Dia 7", Breakfast: "Crepioca (1 ovo, 2 col. de goma de tapioca) com recheio de queijo.", Lunch: "Refeição livre, com moderação. Aproveite para comer algo que gosta sem exagerar.", Dinner: "Salada Caesar com tiras de tofu crocante e molho light.", Snack: "Gelatina diet."},
}

var flexibleVegetarianDays = []Day{
	{Day: "Dia 1", Breakfast: "Iogurte grego com frutas vermelhas, nozes e fio de mel.", Lunch: "Risoto de cogumelos frescos (shitake, shimeji) com parmesão.", Dinner: "Salada caprese com queijo de búfala e pesto.", Snack: "Shake de whey protein (ou de ervilha) com pasta de amendoim."},
	{Day: "Dia 2", Breakfast: "Pão de fermentação natural com abacate amassado e ovo pochê.", Lunch: "Bobó de palmito pupunha com arroz de coco.", Dinner: "Ceviche de manga com chips de batata doce.", Snack: "Um punhado de pistaches."},
	{Day: "Dia 3", Breakfast: "Bowl de açaí puro com granola artesanal, banana e morangos.", Lunch: "Hambúrguer gourmet de cogumelos em pão brioche com queijo brie.", Dinner: "Sopa cremosa de aspargos com croutons de pão integral.", Snack: "Tâmaras com nozes."},
	{Day: "Dia 4", Breakfast: "Ovos beneditinos em pão integral com molho holandês vegano.", Lunch: "Curry de legumes com leite de coco e arroz jasmim.", Dinner: "Wrap integral com homus, falafel, e vegetais grelhados.", Snack: "Mix de frutas secas (damasco, ameixa)."},
	{Day: "Dia 5", Breakfast: "Smoothie verde (couve, abacaxi, whey, água de coco).", Lunch: "Gnocchi de mandioquinha ao molho de sálvia e manteiga.", Dinner: "Carpaccio de beterraba com alcaparras, parmesão e rúcula.", Snack: "Queijo brie com geleia de pimenta."},
	{Day: "Dia 6", Breakfast: "Panquecas americanas com mirtilos e maple syrup.", Lunch: "Paella vegetariana com açafrão, pimentões e ervilhas.", Dinner: "Pizza de fermentação natural com abobrinha e queijo de cabra.", Snack: "Chocolate 70% cacau."},
	{Day: "Dia 7", Breakfast: "Bruschettas em pão integral com tomate cereja e manjericão.", Lunch: "Refeição livre premium. Desfrute de um bom restaurante.", Dinner: "Combinado de sushi vegetariano.", Snack: "Morangos com creme de ricota."},
}
