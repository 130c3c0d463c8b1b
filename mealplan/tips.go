package mealplan

import "fitcalc-backend/anamnesis"

// Tip is one advisory card shown on the plan page and in the plan email.
type Tip struct {
	Icon  string `json:"icon"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// tipContext is what the rule predicates see. Selection logic lives in the
// rules; the content lives in the tips.
type tipContext struct {
	Challenge  anamnesis.MainChallenge
	Sleep      anamnesis.SleepQuality
	Exercise   anamnesis.ExerciseFrequency
	Activities map[anamnesis.ActivityType]bool
	Conditions map[anamnesis.HealthCondition]bool
}

type tipRule struct {
	When func(tipContext) bool
	Tip  Tip
}

func always(tipContext) bool { return true }

// planTipRules is evaluated in order; every matching rule contributes its tip.
var planTipRules = []tipRule{
	{When: always, Tip: Tip{Icon: "💧", Title: "Beba Muita Água", Text: "Hidratação é chave. Beba pelo menos 2 litros de água por dia. Muitas vezes, confundimos sede com fome."}},
	{When: always, Tip: Tip{Icon: "🍗", Title: "Proteína é Essencial", Text: "Inclua uma fonte de proteína em todas as refeições. Ela aumenta a saciedade e ajuda a preservar sua massa muscular."}},

	{When: func(c tipContext) bool { return c.Challenge == anamnesis.ChallengeLackOfTime },
		Tip: Tip{Icon: "⏱️", Title: "Otimize seu Tempo", Text: "Dedique 1-2 horas no fim de semana para o 'meal prep'. Deixe saladas pré-lavadas e grãos cozidos. Isso economiza muito tempo e evita más escolhas na correria."}},
	{When: func(c tipContext) bool { return c.Challenge == anamnesis.ChallengeCravings },
		Tip: Tip{Icon: "🍩", Title: "Controle a Vontade de Doces", Text: "Tenha sempre opções saudáveis e doces à mão, como frutas, iogurte com mel ou um chocolate 70%. Não espere a vontade chegar para pensar no que comer."}},
	{When: func(c tipContext) bool { return c.Challenge == anamnesis.ChallengeSocialEvents },
		Tip: Tip{Icon: "🎉", Title: "Estratégia para Eventos", Text: "Antes de sair, faça um lanche rico em proteínas. No evento, comece pela salada, beba água entre os drinks e escolha uma ou duas coisas que você realmente quer comer, sem exagerar."}},
	{When: func(c tipContext) bool { return c.Challenge == anamnesis.ChallengeLackOfMotivation },
		Tip: Tip{Icon: "🔥", Title: "Mantenha a Motivação", Text: "Defina metas pequenas e realistas. Tire fotos semanais para ver o progresso além da balança. Encontre um parceiro de jornada para se manter responsável."}},

	{When: func(c tipContext) bool { return c.Sleep == anamnesis.SleepPoor },
		Tip: Tip{Icon: "😴", Title: "Melhore seu Sono URGENTE", Text: "Seu sono ruim está sabotando seus resultados. Crie uma rotina: desligue telas 1h antes de deitar, deixe o quarto escuro e evite cafeína à noite. É fundamental para regular seus hormônios."}},
	{When: func(c tipContext) bool { return c.Sleep == anamnesis.SleepRegular },
		Tip: Tip{Icon: "🛌", Title: "Ajuste seu Sono", Text: "Tente melhorar a consistência dos seus horários de dormir e acordar, mesmo nos fins de semana. Um sono de maior qualidade otimiza a queima de gordura e o controle do apetite."}},

	{When: func(c tipContext) bool { return c.Exercise == anamnesis.ExerciseNone },
		Tip: Tip{Icon: "🚶‍♀️", Title: "Comece com o Básico", Text: "Já que seu foco inicial é a dieta, que tal adicionar caminhadas leves de 20-30 minutos ao seu dia? Isso ajuda na digestão, melhora o humor e acelera os resultados sem grande esforço."}},
	{When: func(c tipContext) bool {
		return c.Exercise != anamnesis.ExerciseNone && (c.Activities[anamnesis.ActWeightTraining] || c.Activities[anamnesis.ActFunctional])
	},
		Tip: Tip{Icon: "🏋️", Title: "Foco na Recuperação Muscular", Text: "Para musculação e funcional, uma boa ingestão de proteína pós-treino é crucial. Isso ajuda a reparar e construir músculos, o que acelera seu metabolismo."}},
	{When: func(c tipContext) bool {
		return c.Exercise != anamnesis.ExerciseNone && (c.Activities[anamnesis.ActRunning] || c.Activities[anamnesis.ActWalking])
	},
		Tip: Tip{Icon: "👟", Title: "Cuide das Articulações", Text: "Para atividades de impacto como corrida, invista em um tênis com bom amortecimento e não se esqueça de aquecer bem antes e alongar depois para proteger joelhos e tornozelos."}},
	{When: func(c tipContext) bool {
		return c.Exercise != anamnesis.ExerciseNone && c.Activities[anamnesis.ActSwimming]
	},
		Tip: Tip{Icon: "🏊", Title: "Cuidado com a Fome Pós-Natação", Text: "É comum sentir mais fome depois de nadar. Tenha um lanche saudável e rico em proteínas preparado para não atacar a geladeira sem pensar."}},
	{When: func(c tipContext) bool {
		return c.Exercise != anamnesis.ExerciseNone && len(c.Activities) == 0
	},
		Tip: Tip{Icon: "💪", Title: "Consistência nos Treinos", Text: "Ótimo que você se exercita! Para potencializar, tente manter a regularidade. Mesmo treinos curtos são melhores que nenhum treino. Foque na qualidade do movimento."}},

	{When: func(c tipContext) bool {
		return len(c.Conditions) > 0 && !c.Conditions[anamnesis.CondNone]
	},
		Tip: Tip{Icon: "🧑‍⚕️", Title: "Acompanhamento é Essencial", Text: "Lembre-se: por ter uma condição de saúde, é ainda mais importante que você tenha o acompanhamento de um médico. Este plano é um guia, mas o profissional de saúde poderá ajustá-lo perfeitamente para você."}},

	{When: always, Tip: Tip{Icon: "⚖️", Title: "Consistência > Perfeição", Text: "Não precisa ser perfeito todos os dias. O importante é manter a consistência na maior parte do tempo. Um deslize não estraga o processo."}},
}

// PlanTips evaluates the plan-page rule table against the given answers.
func PlanTips(challenge anamnesis.MainChallenge, sleep anamnesis.SleepQuality, exercise anamnesis.ExerciseFrequency, activities []anamnesis.ActivityType, conditions []anamnesis.HealthCondition) []Tip {
	ctx := tipContext{
		Challenge:  challenge,
		Sleep:      sleep,
		Exercise:   exercise,
		Activities: map[anamnesis.ActivityType]bool{},
		Conditions: map[anamnesis.HealthCondition]bool{},
	}
	for _, a := range activities {
		ctx.Activities[a] = true
	}
	for _, c := range conditions {
		ctx.Conditions[c] = true
	}
	tips := []Tip{}
	for _, r := range planTipRules {
		if r.When(ctx) {
			tips = append(tips, r.Tip)
		}
	}
	return tips
}

// HealthTips is the result-page advisory set driven by smoking, alcohol,
// health conditions, medication and supplement answers.
func HealthTips(in *anamnesis.Input) []Tip {
	tips := []Tip{}

	if in.SmokingStatus == anamnesis.Smoker {
		tips = append(tips, Tip{Icon: "🚭", Title: "Impacto do Cigarro", Text: "Fumar pode diminuir sua capacidade pulmonar e desempenho nos exercícios. Reduzir ou parar de fumar não só melhora sua saúde geral, mas também pode acelerar seus resultados na busca por uma vida mais saudável."})
	}
	if in.AlcoholFrequency == anamnesis.AlcoholFrequently {
		tips = append(tips, Tip{Icon: "🍺", Title: "Cuidado com o Álcool", Text: "Bebidas alcoólicas são 'calorias vazias' que podem atrapalhar seu déficit calórico. O consumo frequente pode sabotar seu progresso. Tente reduzir a frequência e opte por drinks menos calóricos."})
	}

	cond := map[anamnesis.HealthCondition]bool{}
	for _, c := range in.HealthConditions {
		cond[c] = true
	}
	if cond[anamnesis.CondDiabetes] {
		tips = append(tips, Tip{Icon: "🩺", Title: "Atenção à Diabetes", Text: "Consulte seu médico antes de iniciar qualquer plano. Focar em carboidratos complexos (integrais, batata doce) e monitorar a glicemia é crucial. Este plano é um exemplo e precisa de validação profissional."})
	}
	if cond[anamnesis.CondHighBloodPressure] {
		tips = append(tips, Tip{Icon: "❤️", Title: "Controle a Pressão Alta", Text: "A redução de peso já é um grande passo! Combine isso com uma dieta baixa em sódio (evite industrializados, embutidos) e pratique atividades físicas regularmente, sempre com liberação do seu cardiologista."})
	}
	if cond[anamnesis.CondCholesterol] {
		tips = append(tips, Tip{Icon: "🍳", Title: "Gerencie o Colesterol", Text: "Priorize gorduras saudáveis (abacate, azeite, nozes), fibras (aveia, frutas) e evite gorduras trans. Atividade física regular é uma poderosa aliada para melhorar seus níveis de colesterol."})
	}
	if cond[anamnesis.CondThyroid] {
		tips = append(tips, Tip{Icon: "🦋", Title: "Atenção à Tireoide", Text: "Problemas de tireoide podem influenciar seu metabolismo. É fundamental que seu tratamento médico esteja em dia e seus hormônios regulados para que o plano alimentar tenha o efeito esperado."})
	}

	med := map[anamnesis.Medication]bool{}
	for _, m := range in.Medications {
		med[m] = true
	}
	if med[anamnesis.MedLiraglutida] || med[anamnesis.MedSemaglutida] || med[anamnesis.MedSibutramina] {
		tips = append(tips, Tip{Icon: "💧", Title: "Hidratação é Chave", Text: "Alguns medicamentos podem diminuir a sensação de sede. Beba água constantemente, mesmo sem sentir vontade, para manter o corpo hidratado, otimizar o metabolismo e evitar dores de cabeça."})
	}
	if med[anamnesis.MedOrlistat] {
		tips = append(tips, Tip{Icon: "🥑", Title: "Foco em Gorduras Boas", Text: "O Orlistat atua na absorção de gordura. Para melhores resultados e menos desconfortos, priorize gorduras saudáveis (abacate, azeite, nozes) e aumente o consumo de fibras (frutas, vegetais)."})
	}
	if in.TakesSupplements == anamnesis.SupplementsYes {
		tips = append(tips, Tip{Icon: "💊", Title: "Suplementos com Estratégia", Text: "Lembre-se que suplementos complementam a dieta, não a substituem. Converse com um profissional para garantir que você está usando o que é realmente necessário para seus objetivos, evitando desperdício de dinheiro."})
	}
	if len(in.Medications) > 0 && !med[anamnesis.MedNone] {
		tips = append(tips, Tip{Icon: "🥦", Title: "Nutrição em Primeiro Lugar", Text: "Com a medicação ajudando no controle do apetite, foque em qualidade. Cada refeição é uma chance de nutrir seu corpo. Priorize proteínas, fibras e vegetais para se sentir bem e preservar massa magra."})
	}
	return tips
}
