// Package application contém os casos de uso da busca de primos prováveis.
//
// Ele depende apenas do pacote domain (e de bibliotecas de coordenação/observabilidade),
// não conhece net/http, redis nem amqp.
// Ex.: SearchService.Run(ctx, req) coordena os workers e devolve os primos em ordem de descoberta;
// ConcurrencyService.Acquire limita quantas buscas rodam ao mesmo tempo.
package application
