package narrative

import "github.com/pavelanni/devreport/internal/model"

var portuguese = &locale{
	phrases: phrases{
		reportTitle:  "Relatório descritivo de desenvolvimento",
		ageKnown:     "Criança avaliada com aproximadamente %s.",
		ageUnknown:   "Criança avaliada em processo de desenvolvimento na escola.",
		sex:          "Sexo informado: %s.",
		reportIntro:  "Este relatório descreve, em linguagem simples e objetiva, como a criança tem se desenvolvido nas áreas observadas, com base em observações feitas na rotina escolar.",
		insufficient: "Neste momento há poucas situações observadas para uma análise global das habilidades, e já é possível descrever aspectos relevantes percebidos pela professora.",
		overall: [3]string{
			"As observações indicam que a criança se encontra em fase inicial em várias habilidades, o que pede acompanhamento próximo e propostas intencionais que favoreçam seu avanço.",
			"No conjunto das observações, a criança apresenta um desenvolvimento em andamento, alternando momentos de segurança com outros em que se beneficia de apoio e de oportunidades extras de prática.",
			"De forma geral, a criança demonstra comportamentos e habilidades bem consolidados para a faixa etária, participando com interesse das atividades, interagindo com colegas e professores e utilizando com frequência as habilidades avaliadas.",
		},
		strengths:     "Pontos fortes: a criança demonstra segurança especial em %s, onde os comportamentos observados aparecem com frequência e confiança.",
		noStrengths:   "Pontos fortes: as potencialidades da criança estão emergindo nas áreas observadas, e cada nova experiência amplia sua confiança.",
		developing:    "Habilidades em desenvolvimento: %s estão em construção, e a criança se beneficia de apoio e prática nessas áreas.",
		noDeveloping:  "Habilidades em desenvolvimento: as áreas observadas estão consolidadas neste momento, e novos desafios manterão a criança avançando.",
		byArea:        "A seguir, uma análise organizada pelas áreas de desenvolvimento observadas:",
		reportClosing: "Essas informações formam um retrato de um momento, que ajuda a escola e a família a acompanhar o desenvolvimento da criança e a planejar juntas experiências que valorizem suas conquistas e ofereçam apoio nas áreas ainda em construção.",

		suggestTitle:   "Sugestões de atividades em casa para apoiar o desenvolvimento da criança",
		suggestIntro:   "As sugestões a seguir são voltadas às famílias e mostram maneiras simples de fortalecer, no dia a dia, as habilidades observadas na escola. Elas funcionam como momentos naturais de conversa, brincadeira e convivência.",
		suggestNone:    "Neste momento, as observações indicam que as necessidades específicas da criança estão bem contempladas pelas rotinas atuais. Manter conversas, brincadeiras, momentos de leitura e uma rotina organizada em casa contribui de forma consistente para o desenvolvimento da criança.",
		suggestHeading: "%s: como a família pode apoiar em casa",

		planTitle:     "Plano de desenvolvimento global da turma",
		planObjective: "Objetivo geral: apoiar o desenvolvimento da turma nas áreas avaliadas, organizando ações coletivas e acompanhando as necessidades individuais de forma contínua e articulada ao cotidiano escolar.",
		planIntro:     "A seguir, uma leitura global da turma por dimensão avaliada, com orientações e exemplos práticos para o planejamento pedagógico.",
		planClosing:   "O planejamento semanal deve incluir leitura diária, jogos orais, atividades de exploração de quantidades, experiências de Ciências, propostas de movimento e momentos de cuidado e organização. O acompanhamento contínuo de cada criança, com registros simples dos avanços, permite ajustar as intervenções e fortalecer a parceria com as famílias.",

		and: "e",
	},
	themes: map[model.Theme]themeText{
		model.ThemeSocial: {
			report: [3]string{
				"As habilidades sociais da criança encontram-se em fase inicial, com grande potencial de crescimento. Em muitas situações o apoio dos adultos ajuda a criança a seguir regras, esperar a sua vez e manter interações respeitosas com colegas e adultos, favorecendo avanços consistentes ao longo do tempo.",
				"As habilidades sociais da criança estão em desenvolvimento, alternando interações muito positivas com momentos em que a orientação do adulto ajuda a lidar com regras, esperar a vez ou pensar nas consequências das próprias atitudes.",
				"A criança se relaciona bem com colegas e professores, é respeitosa nas interações e participa das atividades em grupo, seguindo regras, respeitando turnos de fala e cooperando nas brincadeiras na maior parte do tempo.",
			},
			home:              "Em casa, as habilidades sociais crescem quando a família combina regras simples com a criança, como guardar os brinquedos depois de usar, esperar para falar e pedir com gentileza. Ideias práticas incluem jogar jogos de tabuleiro ou cartas em família para praticar a espera da vez, incentivar a criança a cumprimentar as pessoas e conversar sobre o dia para ajudá-la a refletir sobre os próprios sentimentos e os dos amigos.",
			classLow:          "As habilidades sociais do grupo estão em desenvolvimento, especialmente em situações que envolvem regras, espera da vez, resolução de conflitos e cooperação.",
			classLowExamples:  "Exemplos práticos: organizar brincadeiras com regras simples e claras; reforçar os combinados da turma com apoio visual; trabalhar situações-problema em histórias e dramatizações, convidando as crianças a pensar em soluções coletivas.",
			classHigh:         "De modo geral a turma demonstra boas habilidades sociais, com relações positivas entre as crianças e respeito às orientações dos adultos.",
			classHighExamples: "Exemplos práticos: manter rodas de conversa com combinados construídos com a turma; propor jogos cooperativos; usar histórias e dramatizações para discutir atitudes e suas consequências.",
		},
		model.ThemeSelfCare: {
			report: [3]string{
				"Os cuidados pessoais estão em construção, com muitas oportunidades de crescimento. Cada lembrete sobre higiene, modos à mesa, organização de materiais e cuidado com os pertences amplia a autonomia da criança e fortalece hábitos saudáveis.",
				"A criança demonstra avanços nos cuidados pessoais, alternando momentos de autonomia com situações em que lembretes sobre higiene, pertences e rotinas de sala são úteis.",
				"Nos cuidados pessoais a criança usa o banheiro de forma adequada, lava as mãos, alimenta-se com boas maneiras e mantém organizados os pertences, os materiais de sala e a mochila, condutas importantes para a autonomia no dia a dia.",
			},
			home:              "Os cuidados pessoais se desenvolvem na rotina, quando a criança recebe pequenas responsabilidades adequadas à idade. Ideias práticas incluem combinar que a criança guarde os próprios brinquedos, envolvê-la no preparo da mesa, repassar juntos os passos para lavar as mãos e conferir a mochila todos os dias para que ela perceba o que levar e trazer da escola.",
			classLow:          "Os hábitos de higiene, o cuidado com os materiais e a autonomia com o próprio corpo e os pertences ainda estão em construção no grupo.",
			classLowExamples:  "Exemplos práticos: construir com a turma painéis de rotina (lavar as mãos, guardar materiais, cuidar da mochila); criar jogos simbólicos de organização da sala; combinar momentos fixos para conferir os materiais antes de ir embora.",
			classHigh:         "No conjunto, a turma mostra boa autonomia nos cuidados pessoais, como higiene, alimentação e organização dos pertences.",
			classHighExamples: "Exemplos práticos: manter rotinas visuais de higiene; dar às crianças a vez de organizar a sala; valorizar atitudes de cuidado e responsabilidade com os materiais.",
		},
		model.ThemeCognitive: {
			report: [3]string{
				"Habilidades cognitivas como classificar, compreender quantidades, reconhecer formas e cores, participar de experiências e se interessar por histórias estão em fase inicial de consolidação, o que pede propostas significativas e apoio próximo.",
				"O desenvolvimento cognitivo da criança está em andamento. Ela participa das atividades, demonstra curiosidade e classifica, conta e reconhece formas, cores e elementos das histórias, ainda se beneficiando de reforço para consolidar essas habilidades.",
				"Na área cognitiva a criança participa bem das atividades de Matemática, Ciências e linguagem, mostrando curiosidade e interesse por livros, histórias, experiências e desafios, e fazendo associações e classificações com segurança em muitas situações.",
			},
			home:              "O desenvolvimento cognitivo ganha força em situações simples do cotidiano. Ideias práticas incluem contar objetos em casa, separar brinquedos por cor ou tamanho, observar a natureza juntos e conversar sobre o que percebem, e ler histórias perguntando o que a criança entendeu e o que pode acontecer em seguida. Músicas, rimas e parlendas também apoiam a atenção e a linguagem.",
			classLow:          "O desenvolvimento cognitivo do grupo está em construção, e propostas que conectem Matemática, Ciências e linguagem a situações significativas tendem a favorecer avanços importantes.",
			classLowExamples:  "Exemplos práticos: usar materiais concretos para contar e classificar; realizar experiências simples com registro coletivo; ler e reler histórias, convidando as crianças a comentar imagens, personagens e acontecimentos.",
			classHigh:         "A turma se envolve bem em propostas de classificação, contagem, reconhecimento de formas e cores, experiências de Ciências e atividades de linguagem.",
			classHighExamples: "Exemplos práticos: desenvolver projetos de investigação (plantas, animais, fenômenos simples); propor jogos de comparação de quantidades; montar cantinhos de leitura com reconto de histórias e brincadeiras com rimas.",
		},
		model.ThemeMotor: {
			report: [3]string{
				"A coordenação motora fina e grossa está em fase inicial de consolidação. Tarefas que exigem controle das mãos e dos dedos e movimentos corporais amplos são oportunidades ricas para planejar atividades motoras e de percepção corporal.",
				"As habilidades motoras estão em construção. Em várias situações a criança mostra boa coordenação e, em outras, encontra desafios pontuais com materiais finos ou movimentos mais coordenados, beneficiando-se de tempo e prática extras.",
				"A criança mostra bom controle nas atividades de coordenação fina e grossa, manuseando materiais de escrita, tesoura e blocos e participando de movimentos corporais variados com interesse e boa consciência do corpo e do espaço.",
			},
			home:              "As habilidades motoras se desenvolvem com brincadeiras que envolvem movimento e uso das mãos. Ideias práticas incluem tempo para desenhar, pintar, rasgar e colar papel, montar blocos ou quebra-cabeças, brincar de pular, correr, dançar e se equilibrar em linhas no chão, e montar pequenos circuitos com almofadas e cadeiras, sempre com segurança e supervisão.",
			classLow:          "As habilidades motoras do grupo estão em desenvolvimento, especialmente no manuseio de materiais finos e nos movimentos coordenados do corpo.",
			classLowExamples:  "Exemplos práticos: propor exercícios graduais de recorte; usar blocos de construção e encaixe; organizar circuitos motores simples, aumentando o desafio à medida que a turma avança.",
			classHigh:         "Em média a turma apresenta boa coordenação motora fina e grossa e participa das atividades que envolvem movimento e materiais de escrita.",
			classHighExamples: "Exemplos práticos: manter circuitos motores variados; oferecer atividades de recorte, colagem e desenho; incluir brincadeiras tradicionais com correr, pular, rolar e se equilibrar.",
		},
		model.ThemeLanguage: {
			report: [3]string{
				"As habilidades de linguagem oral e escrita estão em fase inicial. Leitura diária, conversa e brincadeiras com sons e letras são oportunidades ricas para a criança ampliar vocabulário e confiança.",
				"As habilidades de linguagem da criança estão em desenvolvimento. Ela participa de conversas e momentos de leitura e está construindo fluência, compreensão e escrita com apoio.",
				"A criança expressa ideias com clareza, gosta de ler e mostra boa compreensão e autonomia crescente na escrita para a etapa.",
			},
			home:              "A linguagem cresce quando a família lê junto todos os dias, conversa sobre as histórias, brinca com palavras e rimas e convida a criança a escrever listas de compras, bilhetes ou cartões.",
			classLow:          "As habilidades de leitura, fala e escrita do grupo estão em desenvolvimento e se beneficiam de práticas de linguagem diárias e significativas.",
			classLowExamples:  "Exemplos práticos: ler em voz alta todos os dias com perguntas sobre o texto; manter um mural de palavras da turma; propor a escrita coletiva de bilhetes e pequenas histórias.",
			classHigh:         "A turma mostra boa expressão oral, compreensão leitora e escrita para a etapa.",
			classHighExamples: "Exemplos práticos: fazer rodas de leitura com reconto; propor projetos de autoria com livretos ilustrados; incentivar debates sobre temas do cotidiano.",
		},
		model.ThemeMath: {
			report: [3]string{
				"O raciocínio matemático está em fase inicial. Materiais concretos, jogos com quantidades e problemas do cotidiano são boas oportunidades para a criança construir o senso numérico.",
				"As habilidades matemáticas da criança estão em desenvolvimento. Ela resolve problemas conhecidos e trabalha com quantidades, beneficiando-se de apoio concreto e prática para consolidar estratégias.",
				"A criança mostra senso numérico sólido, resolve problemas com estratégias próprias e explica seu raciocínio com segurança.",
			},
			home:              "A Matemática está em toda parte em casa: cozinhar usando medidas, contar dinheiro nas compras, jogar dados e cartas e conversar sobre horas e calendário apoiam o senso numérico.",
			classLow:          "O raciocínio matemático do grupo está em desenvolvimento, e a resolução de problemas concreta e lúdica tende a favorecer avanços.",
			classLowExamples:  "Exemplos práticos: usar fichas e retas numéricas; brincar de mercado e de medir; discutir diferentes estratégias para o mesmo problema.",
			classHigh:         "A turma mostra bom senso numérico e boas estratégias de resolução de problemas.",
			classHighExamples: "Exemplos práticos: propor problemas abertos com várias soluções; fazer desafios de estimativa; manter diários de Matemática em que as crianças expliquem seu raciocínio.",
		},
	},
	generic: themeText{
		report: [3]string{
			"Nesta área a criança se encontra em fase inicial e se beneficia de apoio frequente e propostas específicas para avançar.",
			"Nesta área as habilidades seguem em desenvolvimento, com avanços importantes e pontos que se fortalecem à medida que a criança vive novas situações.",
			"Nesta área a criança apresenta habilidades bem desenvolvidas para a idade, com comportamentos que aparecem de forma frequente e segura.",
		},
		home:              "Em casa, momentos de convivência, conversa e brincadeiras ligadas a esta área oferecem ricas oportunidades de aprendizagem. Sentar com a criança, ouvi-la com atenção, propor jogos simples e valorizar suas conquistas favorece muito o desenvolvimento.",
		classLow:          "Para esta área, planeje sequências didáticas que combinem exploração livre, atividades dirigidas e acompanhamento individual.",
		classLowExamples:  "Exemplos práticos: alternar exploração livre com atividades dirigidas curtas; registrar os avanços individuais semanalmente; compartilhar os avanços com as famílias.",
		classHigh:         "A turma mostra avanços consistentes nesta área.",
		classHighExamples: "Exemplos práticos: propor desafios mais ricos; deixar as crianças compartilharem estratégias com os colegas; registrar as conquistas com o grupo.",
	},
}
