// Package domain define contratos e tipos de domínio para a busca de primos prováveis.
//
// Este pacote não depende de net/http, redis, amqp nem de implementações concretas.
// A intenção é permitir testes de unidade puros e desacoplar as regras da busca
// (coordenação, índice de descoberta, parada global) dos detalhes de infraestrutura.
package domain
